package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProbe struct {
	mock.Mock
}

func (m *mockProbe) Probe(ctx context.Context, url string, postDate time.Time) (int64, bool, error) {
	args := m.Called(ctx, url, postDate)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

type mockAssets struct {
	mock.Mock
}

func (m *mockAssets) Store(ctx context.Context, key string, data []byte) (*StoredAsset, error) {
	args := m.Called(ctx, key, data)
	if a := args.Get(0); a != nil {
		return a.(*StoredAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

const imageURL = "https://source.example/wp-content/uploads/2024/01/cat.jpg"

func attachmentRecord() SyncRecord {
	return SyncRecord{
		Kind:         KindAttachment,
		RemoteID:     "55",
		OriginSource: testOrigin,
		Payload: map[string]any{
			"post_title":     "Cat",
			"post_name":      "cat",
			"post_date":      "2024-01-05 10:00:00",
			"attachment_url": imageURL,
			"meta_input":     map[string]any{"_wp_attachment_image_alt": "A cat"},
		},
	}
}

func storedCat() *StoredAsset {
	return &StoredAsset{
		Key:      "wp-content/uploads/2024/01/cat.jpg",
		MimeType: "image/jpeg",
		Size:     4,
		Width:    640,
		Height:   480,
		Sizes:    map[string]string{"thumbnail": "wp-content/uploads/2024/01/cat-150x150.jpg"},
	}
}

func TestAttachment_SkipThenFullMode(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	fetcher := &mockFetcher{}
	assets := &mockAssets{}
	e := NewEngine(store, store,
		WithSiteURL("https://target.example"),
		WithBlobFetcher(fetcher),
		WithAssetStore(assets),
	)

	// Skip-assets mode creates a bare descriptor and links it.
	bare := syncOne(t, e, KindAttachment, attachmentRecord(), Options{SkipAssets: true})
	require.Equal(t, StatusCreated, bare.Status, bare.Message)

	p, _ := store.GetPost(ctx, bare.LocalID)
	assert.Equal(t, "attachment", p.Type)
	assert.Equal(t, "https://target.example/wp-content/uploads/2024/01/cat.jpg", p.GUID)
	assert.Equal(t, "A cat", p.Meta["_wp_attachment_image_alt"])
	assert.Nil(t, p.Meta[AttachedFileMetaKey])
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)

	// A later full-mode run recognises the mapping and only fetches.
	fetcher.On("Fetch", mock.Anything, imageURL).Return([]byte("jpeg"), nil).Once()
	assets.On("Store", mock.Anything, "wp-content/uploads/2024/01/cat.jpg", []byte("jpeg")).Return(storedCat(), nil).Once()

	full := syncOne(t, e, KindAttachment, attachmentRecord(), Options{})
	require.Equal(t, StatusUpdated, full.Status, full.Message)
	assert.Equal(t, bare.LocalID, full.LocalID)
	assert.Equal(t, 1, store.countPosts("attachment"))

	p, _ = store.GetPost(ctx, full.LocalID)
	assert.Equal(t, "wp-content/uploads/2024/01/cat.jpg", p.Meta[AttachedFileMetaKey])
	assert.Equal(t, "image/jpeg", p.MimeType)

	// Once the binary is present nothing is fetched again.
	again := syncOne(t, e, KindAttachment, attachmentRecord(), Options{})
	assert.Equal(t, StatusKeptLocal, again.Status)

	fetcher.AssertExpectations(t)
	assets.AssertExpectations(t)
}

func TestAttachment_FullModeCreates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	fetcher := &mockFetcher{}
	assets := &mockAssets{}
	probe := &mockProbe{}
	e := NewEngine(store, store,
		WithSiteURL("https://target.example"),
		WithBlobFetcher(fetcher),
		WithAssetStore(assets),
		WithAssetProbe(probe),
	)

	probe.On("Probe", mock.Anything, imageURL, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)).Return(int64(0), false, nil)
	fetcher.On("Fetch", mock.Anything, imageURL).Return([]byte("jpeg"), nil)
	assets.On("Store", mock.Anything, "wp-content/uploads/2024/01/cat.jpg", []byte("jpeg")).Return(storedCat(), nil)

	res := syncOne(t, e, KindAttachment, attachmentRecord(), Options{})
	require.Equal(t, StatusCreated, res.Status, res.Message)

	p, _ := store.GetPost(ctx, res.LocalID)
	assert.Equal(t, "inherit", p.Status)
	assert.Equal(t, "Cat", p.Title)
	meta, ok := p.Meta[AttachmentMetadataKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 640, meta["width"])

	_, found, _ := e.Identity().Lookup(ctx, "attachment", "55", testOrigin)
	assert.True(t, found)
	probe.AssertExpectations(t)
}

func TestAttachment_ProbeHitReuses(t *testing.T) {
	store := newMemStore()
	fetcher := &mockFetcher{}
	probe := &mockProbe{}
	e := NewEngine(store, store, WithBlobFetcher(fetcher), WithAssetProbe(probe))

	probe.On("Probe", mock.Anything, imageURL, mock.Anything).Return(int64(77), true, nil)

	res := syncOne(t, e, KindAttachment, attachmentRecord(), Options{})
	assert.Equal(t, StatusKeptLocal, res.Status)
	assert.Equal(t, int64(77), res.LocalID)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestAttachment_Failures(t *testing.T) {
	t.Run("FetchFailure", func(t *testing.T) {
		store := newMemStore()
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, imageURL).Return(nil, errors.New("404"))
		e := NewEngine(store, store, WithBlobFetcher(fetcher), WithAssetStore(&mockAssets{}))

		out := e.syncAttachment(context.Background(), attachmentRecord().Payload, testOrigin, Options{})
		assert.Equal(t, AttachmentFetchFailed, out.Outcome)
		assert.ErrorIs(t, out.Err, ErrRemoteFetch)
		assert.False(t, out.OK())
	})

	t.Run("WriteFailure", func(t *testing.T) {
		store := newMemStore()
		fetcher := &mockFetcher{}
		assets := &mockAssets{}
		fetcher.On("Fetch", mock.Anything, imageURL).Return([]byte("jpeg"), nil)
		assets.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))
		e := NewEngine(store, store, WithBlobFetcher(fetcher), WithAssetStore(assets))

		out := e.syncAttachment(context.Background(), attachmentRecord().Payload, testOrigin, Options{})
		assert.Equal(t, AttachmentWriteFailed, out.Outcome)
		assert.ErrorIs(t, out.Err, ErrStoreWrite)
	})

	t.Run("MissingURL", func(t *testing.T) {
		store := newMemStore()
		e := NewEngine(store, store)

		out := e.syncAttachment(context.Background(), map[string]any{"post_title": "x"}, testOrigin, Options{})
		assert.Equal(t, AttachmentInvalid, out.Outcome)
		assert.ErrorIs(t, out.Err, ErrValidation)
	})
}

func TestAttachment_FeaturedImage(t *testing.T) {
	ctx := context.Background()

	t.Run("Attached", func(t *testing.T) {
		store := newMemStore()
		fetcher := &mockFetcher{}
		assets := &mockAssets{}
		fetcher.On("Fetch", mock.Anything, imageURL).Return([]byte("jpeg"), nil)
		assets.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(storedCat(), nil)
		e := NewEngine(store, store, WithBlobFetcher(fetcher), WithAssetStore(assets))

		res := syncOne(t, e, KindPost, postRecord("1", date(2024, 1, 1), map[string]any{
			"featured_image": attachmentRecord().Payload,
		}), Options{})
		require.Equal(t, StatusCreated, res.Status)
		assert.Empty(t, res.Warnings)

		p, _ := store.GetPost(ctx, res.LocalID)
		thumb, ok := p.Meta[ThumbnailMetaKey].(int64)
		require.True(t, ok)
		att, _ := store.GetPost(ctx, thumb)
		require.NotNil(t, att)
		assert.Equal(t, "attachment", att.Type)
	})

	t.Run("FetchFailureDoesNotFailPost", func(t *testing.T) {
		store := newMemStore()
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, imageURL).Return(nil, errors.New("timeout"))
		e := NewEngine(store, store, WithBlobFetcher(fetcher), WithAssetStore(&mockAssets{}))

		res := syncOne(t, e, KindPost, postRecord("1", date(2024, 1, 1), map[string]any{
			"featured_image": attachmentRecord().Payload,
		}), Options{})
		require.Equal(t, StatusCreated, res.Status)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "featured image")

		p, _ := store.GetPost(ctx, res.LocalID)
		assert.NotContains(t, p.Meta, ThumbnailMetaKey)
	})
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "wp-content/uploads/a.jpg", objectKey("https://target.example/wp-content/uploads/a.jpg"))
	assert.Equal(t, "a.jpg", objectKey("a.jpg"))
}
