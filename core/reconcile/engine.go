package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Syncer reconciles one record of a kind.
type Syncer interface {
	Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error)
}

// Engine dispatches batches of records to their kind's syncer.
// It holds collaborators only; per-batch flags travel in Options, so one
// engine can serve concurrent batches.
type Engine struct {
	adapter    Adapter
	identity   *IdentityMapper
	duplicates *DuplicateResolver
	fetcher    BlobFetcher
	probe      AssetProbe
	assets     AssetStore
	logger     *zap.Logger
	hooks      *hooks

	unknownAuthor   UnknownAuthorFunc
	defaultAuthorID int64
	siteURL         string
	defaultTerm     TermRef

	syncers  map[Kind]Syncer
	inflight singleflight.Group
	locks    keyLocks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBlobFetcher sets the downloader used in full asset mode.
func WithBlobFetcher(f BlobFetcher) EngineOption {
	return func(e *Engine) { e.fetcher = f }
}

// WithAssetProbe sets the probe consulted before downloading a binary.
func WithAssetProbe(p AssetProbe) EngineOption {
	return func(e *Engine) { e.probe = p }
}

// WithAssetStore sets where fetched binaries are written.
func WithAssetStore(s AssetStore) EngineOption {
	return func(e *Engine) { e.assets = s }
}

// WithListener registers a post sync listener.
func WithListener(l PostSyncListener) EngineOption {
	return func(e *Engine) { e.hooks.add(l) }
}

// WithDefaultAuthor sets the author used when a remote author cannot be
// mapped. The default is 1.
func WithDefaultAuthor(id int64) EngineOption {
	return func(e *Engine) { e.defaultAuthorID = id }
}

// WithUnknownAuthor overrides the unknown author resolution.
func WithUnknownAuthor(fn UnknownAuthorFunc) EngineOption {
	return func(e *Engine) { e.unknownAuthor = fn }
}

// WithSiteURL sets the local base URL remote media URLs are rewritten to.
func WithSiteURL(url string) EngineOption {
	return func(e *Engine) { e.siteURL = strings.TrimRight(url, "/") }
}

// WithDefaultTerm sets the default term removed when a partial term
// reference is attached. The default is category/uncategorized.
func WithDefaultTerm(taxonomy, slug string) EngineOption {
	return func(e *Engine) { e.defaultTerm = TermRef{Taxonomy: taxonomy, Slug: slug} }
}

// NewEngine creates an engine writing through adapter and mapping identities
// in store.
func NewEngine(adapter Adapter, store IdentityStore, opts ...EngineOption) *Engine {
	identity := NewIdentityMapper(store)
	e := &Engine{
		adapter:         adapter,
		identity:        identity,
		duplicates:      NewDuplicateResolver(adapter, identity),
		logger:          zap.NewNop(),
		hooks:           &hooks{},
		defaultAuthorID: 1,
		defaultTerm:     TermRef{Taxonomy: "category", Slug: "uncategorized"},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.unknownAuthor == nil {
		e.unknownAuthor = func(context.Context, string) int64 { return e.defaultAuthorID }
	}

	e.syncers = map[Kind]Syncer{
		KindPost:         &postSyncer{e: e},
		KindAttachment:   &attachmentSyncer{e: e},
		KindUser:         &userSyncer{e: e},
		KindOption:       &optionSyncer{e: e},
		KindTaxonomyTerm: &termSyncer{e: e},
		KindComment:      &commentSyncer{e: e},
	}
	return e
}

// Identity returns the engine's identity mapper.
func (e *Engine) Identity() *IdentityMapper {
	return e.identity
}

// AddListener registers a post sync listener after construction.
func (e *Engine) AddListener(l PostSyncListener) {
	e.hooks.add(l)
}

// SyncerFor returns the syncer handling kind. Unrecognised kinds are post
// subtypes and get the post syncer.
func (e *Engine) SyncerFor(kind Kind) Syncer {
	if s, ok := e.syncers[kind]; ok {
		return s
	}
	return e.syncers[KindPost]
}

// SyncBatch reconciles records in order and returns one result per record.
// A record's failure is reported in its result and never aborts the batch.
// Only invalid options fail the call as a whole.
func (e *Engine) SyncBatch(ctx context.Context, kind Kind, records []SyncRecord, opts Options) ([]SyncResult, error) {
	if kind == "" {
		return nil, fmt.Errorf("%w: kind is required", ErrValidation)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	if opts.DuplicateAction == DuplicateSync && opts.ContentThreshold == 0 {
		e.logger.Warn("Duplicate matching without content check; slug matches merge unconditionally",
			zap.String("kind", string(kind)))
	}

	// Suspend counting for bulk writes; always resume, even on panic.
	if err := e.adapter.DeferCounting(ctx, true); err != nil {
		e.logger.Warn("Failed to defer counting", zap.Error(err))
	}
	defer func() {
		if err := e.adapter.DeferCounting(context.WithoutCancel(ctx), false); err != nil {
			e.logger.Warn("Failed to resume counting", zap.Error(err))
		}
	}()

	results := make([]SyncResult, len(records))
	for i, rec := range records {
		if rec.Kind == "" {
			rec.Kind = kind
		}
		results[i] = e.SyncOne(ctx, rec, opts)
	}
	return results, nil
}

// SyncOne reconciles a single record. Calls for the same (kind, remote id,
// origin) run one at a time; concurrent calls that also carry the same
// payload, modified time and options share one execution.
func (e *Engine) SyncOne(ctx context.Context, rec SyncRecord, opts Options) SyncResult {
	if isEmptyID(rec.RemoteID) {
		return e.syncRecord(ctx, rec, opts)
	}

	key := IdentityKey{Kind: string(rec.Kind), RemoteID: rec.RemoteID, Origin: rec.OriginSource}.String()
	run := func() SyncResult {
		unlock := e.locks.Lock(key)
		defer unlock()
		return e.syncRecord(ctx, rec, opts)
	}

	digest, ok := recordDigest(rec, opts)
	if !ok {
		return run()
	}
	v, _, _ := e.inflight.Do(key+"#"+digest, func() (any, error) {
		return run(), nil
	})
	return v.(SyncResult)
}

func (e *Engine) syncRecord(ctx context.Context, rec SyncRecord, opts Options) (res SyncResult) {
	log := e.logger.With(
		zap.String("kind", string(rec.Kind)),
		zap.String("remote_id", rec.RemoteID),
		zap.String("origin", rec.OriginSource),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Syncer panicked", zap.Any("panic", r))
			res = SyncResult{RemoteID: rec.RemoteID, Status: StatusError, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if len(rec.Payload) == 0 {
		err := newSyncError(ErrValidation, rec, "record has no payload", nil)
		log.Warn("Record rejected", zap.Error(err))
		return SyncResult{RemoteID: rec.RemoteID, Status: StatusError, Message: err.Error()}
	}

	res, err := e.SyncerFor(rec.Kind).Sync(ctx, rec, opts)
	if res.RemoteID == "" {
		res.RemoteID = rec.RemoteID
	}
	if err != nil {
		log.Warn("Record sync failed", zap.Error(err))
		res.Status = StatusError
		res.Message = err.Error()
		return res
	}

	for _, w := range res.Warnings {
		log.Warn("Sub-entity sync failed", zap.String("detail", w))
	}
	log.Debug("Record synced", zap.String("status", string(res.Status)), zap.Int64("local_id", res.LocalID))
	return res
}

// resolveAuthor maps a remote user id to a local user id, falling back to
// the unknown author hook.
func (e *Engine) resolveAuthor(ctx context.Context, remoteUserID, origin string) int64 {
	if !isEmptyID(remoteUserID) {
		id, found, err := e.identity.Lookup(ctx, string(KindUser), remoteUserID, origin)
		if err != nil {
			e.logger.Warn("Author lookup failed", zap.String("remote_user_id", remoteUserID), zap.Error(err))
		}
		if found {
			return id
		}
	}
	return e.unknownAuthor(ctx, remoteUserID)
}

// localURL rewrites the origin prefix of a remote URL to the site URL.
func (e *Engine) localURL(remoteURL, origin string) string {
	if origin == "" || e.siteURL == "" {
		return remoteURL
	}
	return replaceFold(remoteURL, strings.TrimRight(origin, "/"), e.siteURL)
}

// replaceFold replaces every case-insensitive occurrence of old in s.
func replaceFold(s, old, replacement string) string {
	if old == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return re.ReplaceAllLiteralString(s, replacement)
}
