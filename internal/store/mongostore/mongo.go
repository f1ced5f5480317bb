// Package mongostore persists the engine in MongoDB, one collection
// per entity. Postings carry a unique index on url_hash so concurrent
// upserts collapse onto one document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/store"
)

type Store struct {
	client   *mongo.Client
	postings *mongo.Collection
	state    *mongo.Collection
	analyses *mongo.Collection
	progress *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// analysisDoc wraps the analysis with the denormalized target key the
// supersede query filters on.
type analysisDoc struct {
	domain.SkillGapAnalysis `bson:",inline"`
	TargetKey               string `bson:"target_key"`
}

func Open(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		postings: db.Collection("postings"),
		state:    db.Collection("source_state"),
		analyses: db.Collection("analyses"),
		progress: db.Collection("skill_progress"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.postings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url_hash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "source_id", Value: 1}}},
		{Keys: bson.D{{Key: "last_seen_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create posting indexes: %w", err)
	}
	_, err = s.analyses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "profile_id", Value: 1}, {Key: "target_key", Value: 1}, {Key: "active", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create analysis indexes: %w", err)
	}
	_, err = s.progress.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "profile_id", Value: 1}, {Key: "skill", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create progress indexes: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// UpsertPosting is a single atomic UpdateOne with upsert: the
// UpsertedCount distinguishes created from updated, and first_seen_at
// lives in $setOnInsert so later sightings never touch it.
func (s *Store) UpsertPosting(ctx context.Context, p domain.JobPosting) (store.Outcome, error) {
	if p.URLHash == "" {
		return "", errors.New("upsert posting: empty url hash")
	}
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"title":           p.Title,
			"company":         p.Company,
			"url":             p.URL,
			"location":        p.Location,
			"remote":          p.Remote,
			"work_type":       p.WorkType,
			"seniority":       p.Seniority,
			"salary_min":      p.SalaryMin,
			"salary_max":      p.SalaryMax,
			"salary_currency": p.SalaryCurrency,
			"skills":          p.Skills,
			"description":     p.Description,
			"source_id":       p.SourceID,
			"posted_at":       p.PostedAt,
			"active":          p.Active,
			"last_seen_at":    now,
		},
		"$setOnInsert": bson.M{
			"first_seen_at": now,
		},
	}

	res, err := s.postings.UpdateOne(ctx, bson.M{"url_hash": p.URLHash}, update,
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("posting %s: %w", p.URLHash, domain.ErrStoreConflict)
		}
		return "", fmt.Errorf("upsert posting: %w", err)
	}
	if res.UpsertedCount > 0 {
		return store.OutcomeCreated, nil
	}
	return store.OutcomeUpdated, nil
}

func (s *Store) GetPosting(ctx context.Context, hash string) (domain.JobPosting, error) {
	var p domain.JobPosting
	err := s.postings.FindOne(ctx, bson.M{"url_hash": hash}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.JobPosting{}, fmt.Errorf("posting %s: %w", hash, domain.ErrNotFound)
	}
	if err != nil {
		return domain.JobPosting{}, fmt.Errorf("get posting: %w", err)
	}
	return p, nil
}

func (s *Store) ListPostings(ctx context.Context, opts store.ListOptions) ([]domain.JobPosting, error) {
	filter := bson.M{}
	if opts.Source != "" {
		filter["source_id"] = opts.Source
	}
	if opts.ActiveOnly {
		filter["active"] = true
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "last_seen_at", Value: -1}, {Key: "url_hash", Value: 1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.postings.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.JobPosting
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}
	return out, nil
}

func (s *Store) SourceState(ctx context.Context, source string) (domain.SourceState, error) {
	var st domain.SourceState
	err := s.state.FindOne(ctx, bson.M{"_id": source}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SourceState{}, fmt.Errorf("source state %s: %w", source, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SourceState{}, fmt.Errorf("get source state: %w", err)
	}
	return st, nil
}

func (s *Store) SaveSourceState(ctx context.Context, st domain.SourceState) error {
	if st.Source == "" {
		return errors.New("save source state: empty source")
	}
	_, err := s.state.ReplaceOne(ctx, bson.M{"_id": st.Source}, st,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save source state: %w", err)
	}
	return nil
}

func (s *Store) SaveAnalysis(ctx context.Context, a domain.SkillGapAnalysis) error {
	if a.ID == "" {
		return errors.New("save analysis: empty id")
	}
	target := store.TargetKey(a.PostingHash, a.Role)

	_, err := s.analyses.UpdateMany(ctx,
		bson.M{"profile_id": a.ProfileID, "target_key": target, "active": true},
		bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("retire prior analysis: %w", err)
	}

	_, err = s.analyses.InsertOne(ctx, analysisDoc{SkillGapAnalysis: a, TargetKey: target})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("analysis %s: %w", a.ID, domain.ErrStoreConflict)
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (domain.SkillGapAnalysis, error) {
	var doc analysisDoc
	err := s.analyses.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SkillGapAnalysis{}, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SkillGapAnalysis{}, fmt.Errorf("get analysis: %w", err)
	}
	return doc.SkillGapAnalysis, nil
}

func (s *Store) ActiveAnalysis(ctx context.Context, profileID, targetKey string) (domain.SkillGapAnalysis, error) {
	var doc analysisDoc
	err := s.analyses.FindOne(ctx,
		bson.M{"profile_id": profileID, "target_key": targetKey, "active": true},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.SkillGapAnalysis{}, fmt.Errorf("active analysis %s/%s: %w", profileID, targetKey, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SkillGapAnalysis{}, fmt.Errorf("get active analysis: %w", err)
	}
	return doc.SkillGapAnalysis, nil
}

func (s *Store) ListSkillProgress(ctx context.Context, profileID string) ([]domain.SkillProgress, error) {
	cursor, err := s.progress.Find(ctx, bson.M{"profile_id": profileID},
		options.Find().SetSort(bson.D{{Key: "skill", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list skill progress: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.SkillProgress
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode skill progress: %w", err)
	}
	return out, nil
}

// SaveSkillProgress mirrors the sqlite backend's helper for the
// progress importer; the engine itself only reads progress.
func (s *Store) SaveSkillProgress(ctx context.Context, sp domain.SkillProgress) error {
	if sp.ProfileID == "" || sp.Skill == "" {
		return errors.New("save skill progress: empty profile or skill")
	}
	_, err := s.progress.ReplaceOne(ctx,
		bson.M{"profile_id": sp.ProfileID, "skill": sp.Skill}, sp,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save skill progress: %w", err)
	}
	return nil
}
