package analysis

type emotionLexicon struct {
	Label string
	Words []string
}

type lexiconSet struct {
	Positive    []string
	Negative    []string
	Emotions    []emotionLexicon
	Intensifier []string
	Cap         float64
	// Emotion words must match whole tokens. Inflecting languages leave this off.
	WholeWordEmotions bool
}

var englishLexicon = lexiconSet{
	Positive: []string{
		"good", "great", "excellent", "amazing", "awesome", "best", "love",
		"fantastic", "wonderful", "brilliant", "impressive", "innovative",
		"success", "perfect", "outstanding", "recommend",
	},
	Negative: []string{
		"bad", "terrible", "awful", "worst", "hate", "poor", "disappointing",
		"broken", "fail", "horrible", "useless", "scam", "problem", "issue",
		"negative", "boring",
	},
	Emotions: []emotionLexicon{
		{EmotionJoy, []string{"happy", "joy", "delighted", "excited", "glad", "cheerful"}},
		{EmotionSadness, []string{"sad", "sorrow", "grief", "unhappy", "tears", "heartbroken"}},
		{EmotionAnger, []string{"angry", "furious", "outrage", "rage", "annoyed", "irritated"}},
		{EmotionFear, []string{"afraid", "fear", "scared", "worried", "anxious", "panic"}},
		{EmotionSurprise, []string{"surprised", "surprising", "unexpected", "shocking", "astonished"}},
		{EmotionDisgust, []string{"disgusting", "disgusted", "revolting", "nasty", "repulsive"}},
	},
	Cap:               0.90,
	WholeWordEmotions: true,
}

var finnishLexicon = lexiconSet{
	Positive: []string{
		"hyvä", "loistava", "mahtava", "upea", "erinomainen", "fantastinen",
		"sairaan hyvä", "huippu", "kova", "siisti", "mukava", "kaunis",
		"ihana", "täydellinen", "hienoa", "positiivinen", "onnellinen",
	},
	Negative: []string{
		"huono", "kamala", "hirveä", "syvältä", "paska", "kurja", "perseestä",
		"älytön", "typerä", "säälittävä", "ikävä", "väärä", "vaikea",
		"surullinen", "vihainen", "pettynyt", "harmillinen",
	},
	Emotions: []emotionLexicon{
		{EmotionJoy, []string{"iloinen", "onnellinen", "riemu", "nauru", "hymy", "riemastus"}},
		{EmotionSadness, []string{"surullinen", "murhe", "suru", "itku", "menetys", "kaiho"}},
		{EmotionAnger, []string{"vihainen", "suuttunut", "raivo", "ärsyttää", "kiukku", "ärtymys"}},
		{EmotionFear, []string{"pelko", "pelottaa", "kauhu", "jännitys", "huoli", "ahdistus"}},
		{EmotionSurprise, []string{"yllätys", "hämmästys", "ihme", "uskomaton", "odottamaton"}},
		{EmotionDisgust, []string{"inho", "vastenmielinen", "kuvottava", "iljettävä", "ruma"}},
	},
	Intensifier: []string{"sika", "tosi", "ihan", "aivan", "helvetin", "saatanan", "todella", "erittäin", "hyvin"},
	Cap:         0.95,
}

var languageIndicators = []struct {
	Code  string
	Words []string
}{
	// Order is the tie-break priority
	{"fi", []string{"että", "olla", "hän", "minä", "sinä", "kuitenkin", "siis"}},
	{"sv", []string{"att", "och", "är", "jag", "du", "han", "hon"}},
	{"en", []string{"the", "and", "is", "are", "that", "this", "with"}},
}

type region struct {
	Name   string
	Cities []string
}

var finnishRegions = []region{
	{"Uusimaa", []string{"Helsinki", "Espoo", "Vantaa", "Kauniainen", "Kirkkonummi", "Kerava", "Järvenpää"}},
	{"Pirkanmaa", []string{"Tampere", "Nokia", "Ylöjärvi", "Kangasala", "Orivesi", "Valkeakoski"}},
	{"Varsinais-Suomi", []string{"Turku", "Kaarina", "Naantali", "Raisio", "Salo", "Loimaa"}},
	{"Pohjois-Pohjanmaa", []string{"Oulu", "Kempele", "Ii", "Muhos", "Tyrnävä", "Liminka"}},
	{"Keski-Suomi", []string{"Jyväskylä", "Äänekoski", "Jämsä", "Saarijärvi", "Keuruu"}},
	{"Pohjois-Savo", []string{"Kuopio", "Siilinjärvi", "Iisalmi", "Varkaus", "Suonenjoki"}},
	{"Satakunta", []string{"Pori", "Rauma", "Ulvila", "Kankaanpää", "Harjavalta"}},
	{"Päijät-Häme", []string{"Lahti", "Hollola", "Heinola", "Nastola", "Sysmä"}},
	{"Kymenlaakso", []string{"Kotka", "Kouvola", "Hamina", "Pyhtää"}},
	{"Lappi", []string{"Rovaniemi", "Tornio", "Kemi", "Kemijärvi", "Sodankylä"}},
}

var englishStopwords = []string{
	"the", "and", "is", "are", "this", "that", "with", "from", "have", "been",
	"were", "they", "their", "there", "what", "when", "which", "will", "would",
	"about", "into", "than", "then", "them", "these", "those", "your", "more",
	"also", "just", "over", "some", "such", "only", "very", "after", "before",
	// Finnish words that commonly leak into mixed-language results
	"että", "olla", "tämä", "niin", "kuin",
}

var finnishStopwords = []string{
	"että", "olla", "se", "hän", "ja", "tämä", "kun", "niin", "kuin", "jos",
	"ei", "ole", "saada", "minä", "sinä", "me", "te", "he", "on",
	"en", "et", "emme", "ette", "eivät", "oli", "olit", "olimme", "olitte",
	"olivat", "olen", "olet", "olemme", "olette", "ovat", "mutta", "tai",
	"sekä", "vaan", "kuitenkin", "siis", "eli", "myös", "vielä", "jo",
	"aina", "koskaan", "joskus", "nyt", "sitten", "ensin", "vihdoin",
}
