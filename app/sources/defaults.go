package sources

import "github.com/lysyi3m/trend-comb/app/analysis"

// DefaultConfigs is the source set used when no configuration directory exists.
func DefaultConfigs() []*Config {
	return []*Config{
		{
			Name:     "news",
			Kind:     KindNewsAPI,
			URL:      "https://newsapi.org/v2/everything",
			Order:    10,
			Analysis: analysis.VariantEnglish,
			Settings: ConfigSettings{
				Enabled:          true,
				MaxResults:       20,
				MaxContentLength: 1000,
				LookbackDays:     7,
				Language:         "en",
			},
			Filters: []ConfigFilter{
				{Field: "title", Excludes: []string{"[Removed]"}},
			},
		},
		{
			Name:     "reddit",
			Kind:     KindReddit,
			URL:      "https://www.reddit.com",
			Order:    20,
			Analysis: analysis.VariantEnglish,
			Settings: ConfigSettings{
				Enabled:          true,
				MaxResults:       15,
				PerSourceLimit:   5,
				MinScore:         5,
				MaxContentLength: 1000,
				Subreddits:       []string{"technology", "business", "marketing"},
			},
		},
		{
			Name:     "hackernews",
			Kind:     KindHackerNews,
			URL:      "https://hn.algolia.com/api/v1/search",
			Order:    30,
			Analysis: analysis.VariantEnglish,
			Settings: ConfigSettings{
				Enabled:      true,
				MaxResults:   10,
				MinScore:     10,
				LookbackDays: 7,
			},
		},
		{
			Name:     "yle",
			Kind:     KindYLE,
			URL:      "https://feeds.yle.fi/uutiset/v1/recent.json",
			Order:    40,
			Analysis: analysis.VariantFinnish,
			Settings: ConfigSettings{
				Enabled:     true,
				MaxResults:  5,
				Language:    "fi",
				Placeholder: true,
			},
			Placeholder: PlaceholderContent{
				Title:   "YLE: Uutinen aiheesta {keyword}",
				Content: "Tämä on esimerkki YLE-uutisesta, joka käsittelee aihetta {keyword}. Uutinen sisältää relevanttia tietoa suomalaisesta näkökulmasta.",
				URL:     "https://yle.fi/uutiset",
			},
		},
		{
			Name:     "hs",
			Kind:     KindRSS,
			URL:      "https://www.hs.fi/rss/tuoreimmat.xml",
			Order:    50,
			Analysis: analysis.VariantFinnish,
			Settings: ConfigSettings{
				Enabled:     true,
				MaxResults:  5,
				Language:    "fi",
				Placeholder: true,
			},
			Placeholder: PlaceholderContent{
				Title:   "HS: {keyword} herättää keskustelua",
				Content: "Helsingin Sanomat raportoi aiheesta {keyword}. Artikkeli analysoi asiaa monesta näkökulmasta ja sisältää asiantuntijakommentteja.",
				URL:     "https://www.hs.fi",
			},
		},
		{
			Name:     "iltalehti",
			Kind:     KindRSS,
			URL:      "https://www.iltalehti.fi/rss/uutiset.xml",
			Order:    60,
			Analysis: analysis.VariantFinnish,
			Settings: ConfigSettings{
				Enabled:     true,
				MaxResults:  5,
				Language:    "fi",
				Placeholder: true,
			},
			Placeholder: PlaceholderContent{
				Title:   "Iltalehti: {keyword} puhuttaa lukijoita",
				Content: "Iltalehden artikkeli käsittelee aihetta {keyword}. Lukijat ovat kommentoineet artikkelia vilkkaasti sosiaalisessa mediassa.",
				URL:     "https://www.iltalehti.fi",
			},
		},
		{
			Name:     "suomi24",
			Kind:     KindForum,
			URL:      "https://keskustelu.suomi24.fi/haku?keyword={keyword}",
			Order:    70,
			Analysis: analysis.VariantFinnish,
			Settings: ConfigSettings{
				Enabled:     true,
				MaxResults:  5,
				Language:    "fi",
				Placeholder: true,
			},
			Placeholder: PlaceholderContent{
				Title:   "Suomi24 keskustelu: {keyword}",
				Content: "Suomi24-foorumilla käydään vilkasta keskustelua aiheesta {keyword}. Osallistujat jakavat kokemuksiaan ja mielipiteitään asiasta.",
				URL:     "https://keskustelu.suomi24.fi",
			},
			Selectors: ConfigSelectors{
				Item:     "article",
				Title:    "h2",
				Link:     "a",
				Content:  "p",
				Author:   ".author",
				Comments: ".comments",
			},
		},
	}
}
