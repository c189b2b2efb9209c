package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/trend-comb/app/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collRaw           = "raw_data_ingestion"
	collTrends        = "trend_data"
	collKeywords      = "keywords"
	collTrendKeywords = "trend_keywords"
	collMetrics       = "ingestion_metrics"
)

// Store is the MongoDB-backed Gateway. Collections mirror the SQLite tables.
type Store struct {
	client        *mongo.Client
	db            *mongo.Database
	raw           *mongo.Collection
	trends        *mongo.Collection
	keywords      *mongo.Collection
	trendKeywords *mongo.Collection
	metrics       *mongo.Collection

	// Multi-document transactions need a replica set or sharded cluster.
	transactions bool
}

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (r helloReply) supportsTransactions() bool {
	return r.SetName != "" || r.Msg == "isdbgrid"
}

type rawDoc struct {
	ID          string               `bson:"_id"`
	SourceType  string               `bson:"source_type"`
	SourceURL   string               `bson:"source_url"`
	RawContent  bson.M               `bson:"raw_content"`
	Metadata    database.RawMetadata `bson:"metadata"`
	Status      string               `bson:"processing_status"`
	IngestedAt  time.Time            `bson:"ingested_at"`
	ProcessedAt *time.Time           `bson:"processed_at,omitempty"`
}

type trendDoc struct {
	ID                string                 `bson:"_id"`
	RawDataID         string                 `bson:"raw_data_id"`
	ContentSummary    string                 `bson:"content_summary"`
	Sentiment         string                 `bson:"sentiment"`
	ConfidenceScore   float64                `bson:"confidence_score"`
	MentionCount      int                    `bson:"mention_count"`
	EngagementMetrics bson.M                 `bson:"engagement_metrics"`
	SourceType        string                 `bson:"source_type"`
	TimestampOriginal time.Time              `bson:"timestamp_original"`
	LocationData      *database.LocationData `bson:"location_data,omitempty"`
	CreatedAt         time.Time              `bson:"created_at"`
}

type keywordDoc struct {
	ID        string    `bson:"_id"`
	Keyword   string    `bson:"keyword"`
	CreatedAt time.Time `bson:"created_at"`
}

type trendKeywordDoc struct {
	ID             string  `bson:"_id"`
	KeywordID      string  `bson:"keyword_id"`
	TrendDataID    string  `bson:"trend_data_id"`
	RelevanceScore float64 `bson:"relevance_score"`
}

type metricsDoc struct {
	ID                   string                 `bson:"_id"`
	SourceType           string                 `bson:"source_type"`
	RecordsProcessed     int                    `bson:"records_processed"`
	RecordsFailed        int                    `bson:"records_failed"`
	ProcessingDurationMS int64                  `bson:"processing_duration_ms"`
	ErrorDetails         []database.ErrorDetail `bson:"error_details"`
	CreatedAt            time.Time              `bson:"created_at"`
}

var _ database.Gateway = (*Store)(nil)

func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:        client,
		db:            db,
		raw:           db.Collection(collRaw),
		trends:        db.Collection(collTrends),
		keywords:      db.Collection(collKeywords),
		trendKeywords: db.Collection(collTrendKeywords),
		metrics:       db.Collection(collMetrics),
	}

	var hello helloReply
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to query mongo topology: %w", err)
	}
	s.transactions = hello.supportsTransactions()

	if err := ensureIndexes(ctx, s); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

func ensureIndexes(ctx context.Context, s *Store) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.raw: {
			{Keys: bson.D{{Key: "processing_status", Value: 1}}},
		},
		s.trends: {
			{Keys: bson.D{{Key: "timestamp_original", Value: -1}}},
			{Keys: bson.D{{Key: "source_type", Value: 1}}},
			{Keys: bson.D{{Key: "raw_data_id", Value: 1}}},
		},
		s.keywords: {
			{Keys: bson.D{{Key: "keyword", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.trendKeywords: {
			{Keys: bson.D{{Key: "keyword_id", Value: 1}, {Key: "trend_data_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "trend_data_id", Value: 1}}},
		},
		s.metrics: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Raw records

func (s *Store) CreateRaw(ctx context.Context, record database.RawRecord) (*database.RawRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = database.StatusPending
	}
	if record.IngestedAt.IsZero() {
		record.IngestedAt = time.Now().UTC()
	}

	doc := rawDoc{
		ID:          record.ID,
		SourceType:  record.SourceType,
		SourceURL:   record.SourceURL,
		RawContent:  bson.M(record.RawContent),
		Metadata:    record.Metadata,
		Status:      string(record.Status),
		IngestedAt:  record.IngestedAt,
		ProcessedAt: record.ProcessedAt,
	}
	if _, err := s.raw.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert raw record: %w", err)
	}

	return &record, nil
}

func (s *Store) GetRaw(ctx context.Context, id string) (*database.RawRecord, error) {
	var doc rawDoc
	err := s.raw.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raw record: %w", err)
	}

	return &database.RawRecord{
		ID:          doc.ID,
		SourceType:  doc.SourceType,
		SourceURL:   doc.SourceURL,
		RawContent:  map[string]any(doc.RawContent),
		Metadata:    doc.Metadata,
		Status:      database.ProcessingStatus(doc.Status),
		IngestedAt:  doc.IngestedAt,
		ProcessedAt: doc.ProcessedAt,
	}, nil
}

func (s *Store) UpdateRawStatus(ctx context.Context, id string, status database.ProcessingStatus, processedAt *time.Time) error {
	set := bson.M{"processing_status": string(status)}
	if processedAt != nil {
		set["processed_at"] = processedAt.UTC()
	}

	result, err := s.raw.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update raw record status: %w", err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Trend records

func (s *Store) CreateTrend(ctx context.Context, record database.TrendRecord) (*database.TrendRecord, error) {
	owners, err := s.raw.CountDocuments(ctx, bson.M{"_id": record.RawDataID})
	if err != nil {
		return nil, fmt.Errorf("failed to check raw record: %w", err)
	}
	if owners == 0 {
		return nil, fmt.Errorf("failed to insert trend record: raw record %s: %w", record.RawDataID, database.ErrNotFound)
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.MentionCount < 0 {
		record.MentionCount = 0
	}
	record.ConfidenceScore = clampScore(record.ConfidenceScore)

	if _, err := s.trends.InsertOne(ctx, toTrendDoc(record)); err != nil {
		return nil, fmt.Errorf("failed to insert trend record: %w", err)
	}

	return &record, nil
}

func (s *Store) GetTrend(ctx context.Context, id string) (*database.TrendRecord, error) {
	var doc trendDoc
	err := s.trends.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trend record: %w", err)
	}

	record := fromTrendDoc(doc)
	return &record, nil
}

func (s *Store) ListTrends(ctx context.Context, query database.TrendQuery) ([]database.TrendRecord, error) {
	filter := bson.M{}
	if database.CanonicalKeyword(query.Keyword) != "" {
		ids, err := s.matchingTrendIDs(ctx, query.Keyword)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$in": ids}
	}
	if query.Source != "" {
		filter["source_type"] = query.Source
	}
	if query.Sentiment != "" {
		filter["sentiment"] = query.Sentiment
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp_original", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(query.EffectiveLimit()))

	return s.findTrends(ctx, filter, opts)
}

func (s *Store) MentionSeries(ctx context.Context, keyword string, since time.Time) ([]database.DailyCount, error) {
	filter := bson.M{"timestamp_original": bson.M{"$gte": since.UTC()}}
	if database.CanonicalKeyword(keyword) != "" {
		ids, err := s.matchingTrendIDs(ctx, keyword)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$in": ids}
	}

	trends, err := s.findTrends(ctx, filter, options.Find())
	if err != nil {
		return nil, err
	}

	return dailyCounts(trends), nil
}

func (s *Store) findTrends(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]database.TrendRecord, error) {
	cursor, err := s.trends.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trends: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []trendDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode trends: %w", err)
	}

	trends := make([]database.TrendRecord, 0, len(docs))
	for _, doc := range docs {
		trends = append(trends, fromTrendDoc(doc))
	}
	return trends, nil
}

// matchingTrendIDs resolves trends linked to any keyword containing needle.
func (s *Store) matchingTrendIDs(ctx context.Context, keyword string) ([]string, error) {
	cursor, err := s.keywords.Find(ctx, bson.M{"keyword": bson.M{"$regex": keywordPattern(keyword)}})
	if err != nil {
		return nil, fmt.Errorf("failed to match keywords: %w", err)
	}
	var keywords []keywordDoc
	if err := cursor.All(ctx, &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	if len(keywords) == 0 {
		return []string{}, nil
	}

	keywordIDs := make([]string, 0, len(keywords))
	for _, k := range keywords {
		keywordIDs = append(keywordIDs, k.ID)
	}

	links, err := s.trendKeywords.Distinct(ctx, "trend_data_id", bson.M{"keyword_id": bson.M{"$in": keywordIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to match trend keywords: %w", err)
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		if id, ok := link.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Keywords

func (s *Store) UpsertKeyword(ctx context.Context, keyword string) (*database.Keyword, error) {
	canonical := database.CanonicalKeyword(keyword)
	if canonical == "" {
		return nil, fmt.Errorf("keyword must be non-empty")
	}

	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.NewString(),
		"keyword":    canonical,
		"created_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc keywordDoc
	if err := s.keywords.FindOneAndUpdate(ctx, bson.M{"keyword": canonical}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert keyword: %w", err)
	}

	return &database.Keyword{ID: doc.ID, Keyword: doc.Keyword, CreatedAt: doc.CreatedAt}, nil
}

// AttachKeywords upserts the keywords and writes all links in one ordered bulk
// write. On a replica set or sharded cluster this runs in a transaction. A
// standalone server has no multi-document transactions, so a failure part-way
// there can leave unlinked keywords behind.
func (s *Store) AttachKeywords(ctx context.Context, trendID string, keywords []database.ScoredKeyword) error {
	if !s.transactions {
		return s.attachKeywords(ctx, trendID, keywords)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, s.attachKeywords(sc, trendID, keywords)
	})
	return err
}

func (s *Store) attachKeywords(ctx context.Context, trendID string, keywords []database.ScoredKeyword) error {
	exists, err := s.trends.CountDocuments(ctx, bson.M{"_id": trendID})
	if err != nil {
		return fmt.Errorf("failed to check trend record: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("failed to attach keywords: trend %s: %w", trendID, database.ErrNotFound)
	}

	var models []mongo.WriteModel
	for _, scored := range keywords {
		if database.CanonicalKeyword(scored.Keyword) == "" {
			continue
		}

		keyword, err := s.UpsertKeyword(ctx, scored.Keyword)
		if err != nil {
			return err
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"keyword_id": keyword.ID, "trend_data_id": trendID}).
			SetUpdate(bson.M{
				"$setOnInsert": bson.M{"_id": uuid.NewString()},
				"$max":         bson.M{"relevance_score": clampScore(scored.Relevance)},
			}).
			SetUpsert(true))
	}

	if len(models) == 0 {
		return nil
	}

	if _, err := s.trendKeywords.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to link keywords: %w", err)
	}
	return nil
}

func (s *Store) TrendKeywords(ctx context.Context, trendID string) ([]database.ScoredKeyword, error) {
	cursor, err := s.trendKeywords.Find(ctx, bson.M{"trend_data_id": trendID})
	if err != nil {
		return nil, fmt.Errorf("failed to query trend keywords: %w", err)
	}
	var links []trendKeywordDoc
	if err := cursor.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("failed to decode trend keywords: %w", err)
	}
	if len(links) == 0 {
		return []database.ScoredKeyword{}, nil
	}

	keywordIDs := make([]string, 0, len(links))
	for _, link := range links {
		keywordIDs = append(keywordIDs, link.KeywordID)
	}

	cursor, err = s.keywords.Find(ctx, bson.M{"_id": bson.M{"$in": keywordIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	var keywords []keywordDoc
	if err := cursor.All(ctx, &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}

	return joinKeywords(links, keywords), nil
}

// Metrics

func (s *Store) CreateMetrics(ctx context.Context, metrics database.IngestionMetrics) (*database.IngestionMetrics, error) {
	if metrics.ID == "" {
		metrics.ID = uuid.NewString()
	}
	if metrics.CreatedAt.IsZero() {
		metrics.CreatedAt = time.Now().UTC()
	}
	if metrics.ErrorDetails == nil {
		metrics.ErrorDetails = []database.ErrorDetail{}
	}

	doc := metricsDoc{
		ID:                   metrics.ID,
		SourceType:           metrics.SourceType,
		RecordsProcessed:     metrics.RecordsProcessed,
		RecordsFailed:        metrics.RecordsFailed,
		ProcessingDurationMS: metrics.ProcessingDurationMS,
		ErrorDetails:         metrics.ErrorDetails,
		CreatedAt:            metrics.CreatedAt,
	}
	if _, err := s.metrics.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert ingestion metrics: %w", err)
	}

	return &metrics, nil
}

func (s *Store) ListMetrics(ctx context.Context, limit int) ([]database.IngestionMetrics, error) {
	if limit <= 0 || limit > database.MaxTrendLimit {
		limit = database.DefaultTrendLimit
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := s.metrics.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion metrics: %w", err)
	}

	var docs []metricsDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ingestion metrics: %w", err)
	}

	list := make([]database.IngestionMetrics, 0, len(docs))
	for _, doc := range docs {
		details := doc.ErrorDetails
		if details == nil {
			details = []database.ErrorDetail{}
		}
		list = append(list, database.IngestionMetrics{
			ID:                   doc.ID,
			SourceType:           doc.SourceType,
			RecordsProcessed:     doc.RecordsProcessed,
			RecordsFailed:        doc.RecordsFailed,
			ProcessingDurationMS: doc.ProcessingDurationMS,
			ErrorDetails:         details,
			CreatedAt:            doc.CreatedAt,
		})
	}
	return list, nil
}

// Helpers

func toTrendDoc(record database.TrendRecord) trendDoc {
	return trendDoc{
		ID:                record.ID,
		RawDataID:         record.RawDataID,
		ContentSummary:    record.ContentSummary,
		Sentiment:         record.Sentiment,
		ConfidenceScore:   record.ConfidenceScore,
		MentionCount:      record.MentionCount,
		EngagementMetrics: bson.M(record.EngagementMetrics),
		SourceType:        record.SourceType,
		TimestampOriginal: record.TimestampOriginal.UTC(),
		LocationData:      record.LocationData,
		CreatedAt:         record.CreatedAt.UTC(),
	}
}

func fromTrendDoc(doc trendDoc) database.TrendRecord {
	return database.TrendRecord{
		ID:                doc.ID,
		RawDataID:         doc.RawDataID,
		ContentSummary:    doc.ContentSummary,
		Sentiment:         doc.Sentiment,
		ConfidenceScore:   doc.ConfidenceScore,
		MentionCount:      doc.MentionCount,
		EngagementMetrics: map[string]any(doc.EngagementMetrics),
		SourceType:        doc.SourceType,
		TimestampOriginal: doc.TimestampOriginal.UTC(),
		LocationData:      doc.LocationData,
		CreatedAt:         doc.CreatedAt.UTC(),
	}
}

// keywordPattern matches stored keywords containing the canonical needle literally.
func keywordPattern(keyword string) string {
	return regexp.QuoteMeta(database.CanonicalKeyword(keyword))
}

func dailyCounts(trends []database.TrendRecord) []database.DailyCount {
	totals := make(map[time.Time]int)
	for _, trend := range trends {
		ts := trend.TimestampOriginal.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] += trend.MentionCount
	}

	series := make([]database.DailyCount, 0, len(totals))
	for day, mentions := range totals {
		series = append(series, database.DailyCount{Day: day, Mentions: mentions})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Day.Before(series[j].Day)
	})
	return series
}

func joinKeywords(links []trendKeywordDoc, keywords []keywordDoc) []database.ScoredKeyword {
	byID := make(map[string]string, len(keywords))
	for _, k := range keywords {
		byID[k.ID] = k.Keyword
	}

	scored := make([]database.ScoredKeyword, 0, len(links))
	for _, link := range links {
		if keyword, ok := byID[link.KeywordID]; ok {
			scored = append(scored, database.ScoredKeyword{Keyword: keyword, Relevance: link.RelevanceScore})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		return scored[i].Keyword < scored[j].Keyword
	})
	return scored
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
