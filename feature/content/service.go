package content

import (
	"context"
	"fmt"
	"io"
	"time"

	"site-sync/core/database"
	"site-sync/core/reconcile"
	"site-sync/core/storage"
	"site-sync/feature/content/assets"
	"site-sync/feature/content/models"
	"site-sync/feature/content/store"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// SyncBatchRequest is a batch pushed by a sending site. Records are either
// envelopes ({remote_id, origin_source, modified_at, payload}) or bare
// payloads carrying their identity in press_sync_* meta.
type SyncBatchRequest struct {
	Kind    reconcile.Kind     `json:"kind" yaml:"kind"`
	Records []map[string]any   `json:"records" yaml:"records"`
	Options *reconcile.Options `json:"options,omitempty" yaml:"options"`
	// Page is the page of a paginated run this batch belongs to.
	Page int `json:"page,omitempty" yaml:"page"`
}

// StatusReport is the connection test answer.
type StatusReport struct {
	Status string                `json:"status"`
	Schema database.SchemaReport `json:"schema"`
	Bucket BucketStatus          `json:"bucket"`
	Counts map[string]int64      `json:"counts"`
}

// BucketStatus reports the media bucket.
type BucketStatus struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// PostStatus reports whether a remote post is synced.
type PostStatus struct {
	RemoteID string     `json:"remote_id"`
	Origin   string     `json:"origin_source"`
	PostType string     `json:"post_type"`
	Synced   bool       `json:"synced"`
	LocalID  int64      `json:"local_id,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
}

// ProgressReport lists what a kind has synced so far.
type ProgressReport struct {
	Kind   string            `json:"kind"`
	Origin string            `json:"origin_source,omitempty"`
	IDs    []string          `json:"ids"`
	Cursor *reconcile.Cursor `json:"cursor,omitempty"`
}

// Service owns the engine and the collaborators it writes through.
type Service struct {
	engine  *reconcile.Engine
	store   *store.Store
	assets  *assets.Store
	client  storage.Client
	bucket  string
	cursors *reconcile.Cursors
	cfg     reconcile.Config
	logger  *zap.Logger
}

// NewService wires an engine over st, storing media in bucket.
func NewService(st *store.Store, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	media := assets.NewStore(client, bucket, cfg.ThumbnailWidth, cfg.ThumbnailHeight, logger)

	opts := append(cfg.EngineOptions(),
		reconcile.WithLogger(logger),
		reconcile.WithBlobFetcher(assets.NewFetcher(cfg.FetchTimeout(), cfg.MaxDownloadBytes())),
		reconcile.WithAssetProbe(st),
		reconcile.WithAssetStore(media),
	)
	engine := reconcile.NewEngine(st, st, opts...)
	engine.AddListener(NewConnectionListener(st, engine.Identity()))

	return &Service{
		engine:  engine,
		store:   st,
		assets:  media,
		client:  client,
		bucket:  bucket,
		cursors: reconcile.NewCursors(),
		cfg:     cfg,
		logger:  logger,
	}
}

// Engine returns the reconciliation engine.
func (s *Service) Engine() *reconcile.Engine {
	return s.engine
}

// DefaultOptions returns the batch options a request starts from.
func (s *Service) DefaultOptions() reconcile.Options {
	return reconcile.Options{ContentThreshold: s.cfg.ContentThreshold}
}

// NewBatch returns an empty request whose options hold the configured
// defaults, so decoding a partial options object keeps them.
func (s *Service) NewBatch() SyncBatchRequest {
	opts := s.DefaultOptions()
	return SyncBatchRequest{Options: &opts}
}

// Sync reconciles a batch and returns one result per record, in order.
func (s *Service) Sync(ctx context.Context, req SyncBatchRequest) ([]reconcile.SyncResult, error) {
	if req.Kind == "" {
		return nil, fmt.Errorf("%w: kind is required", reconcile.ErrValidation)
	}

	opts := s.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	records, errs := reconcile.NewRecords(req.Kind, req.Records)
	for i, err := range errs {
		if err != nil {
			s.logger.Debug("Malformed record", zap.Int("index", i), zap.Error(err))
		}
	}

	results, err := s.engine.SyncBatch(ctx, req.Kind, records, opts)
	if err != nil {
		return nil, err
	}

	if req.Page > 0 {
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.RemoteID)
		}
		s.cursors.Advance(string(req.Kind), req.Page, ids)
	}
	return results, nil
}

// Status checks the schema and the media bucket.
func (s *Service) Status(ctx context.Context) (*StatusReport, error) {
	schema, err := database.CheckSchema(s.store.DB().WithContext(ctx), models.ExpectedSchema())
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Stats(ctx)
	if err != nil && schema.OK() {
		return nil, err
	}

	report := &StatusReport{Status: "ok", Schema: schema, Counts: counts, Bucket: BucketStatus{Name: s.bucket}}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		report.Bucket.Error = err.Error()
	}
	report.Bucket.Exists = exists

	if !schema.OK() || !exists {
		report.Status = "degraded"
	}
	return report, nil
}

// PostStatus reports whether the remote post is synced from origin.
func (s *Service) PostStatus(ctx context.Context, remoteID, origin, postType string) (*PostStatus, error) {
	if postType == "" {
		postType = string(reconcile.KindPost)
	}
	status := &PostStatus{RemoteID: remoteID, Origin: origin, PostType: postType}

	id, found, err := s.engine.Identity().Lookup(ctx, postType, remoteID, origin)
	if err != nil || !found {
		return status, err
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil || post == nil {
		return status, err
	}

	modified := post.Modified
	status.Synced = true
	status.LocalID = id
	status.Modified = &modified
	return status, nil
}

// Progress lists the ids synced for kind from origin with the run's cursor.
// With localIDs the local ids are listed instead, as preserve-ids runs need.
func (s *Service) Progress(ctx context.Context, kind, origin string, localIDs bool) (*ProgressReport, error) {
	ids, err := s.store.SyncedIDs(ctx, kind, origin, localIDs)
	if err != nil {
		return nil, err
	}
	report := &ProgressReport{Kind: kind, Origin: origin, IDs: ids}
	if cur, ok := s.cursors.Get(kind); ok {
		report.Cursor = &cur
	}
	return report, nil
}

// ResetProgress forgets the cursor of kind.
func (s *Service) ResetProgress(kind string) {
	s.cursors.Reset(kind)
}

// OpenMedia opens a stored media object.
func (s *Service) OpenMedia(ctx context.Context, key string) (io.ReadCloser, minio.ObjectInfo, error) {
	return s.assets.Open(ctx, key)
}
