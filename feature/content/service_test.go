package content_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"site-sync/core/database"
	"site-sync/core/reconcile"
	"site-sync/core/storage/mocks"
	"site-sync/feature/content"
	"site-sync/feature/content/store"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*content.Service, *store.Store, *mocks.Client) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db, []string{"category"})
	require.NoError(t, st.Migrate())

	client := new(mocks.Client)
	svc := content.NewService(st, client, "media", reconcile.Config{
		SiteURL:         "https://local.test",
		DefaultAuthorID: 1,
		ThumbnailWidth:  50,
		ThumbnailHeight: 50,
	}, zap.NewNop())
	return svc, st, client
}

func TestService_FeaturedImageEndToEnd(t *testing.T) {
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 80, 60))))

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-content/uploads/2024/01/cat.png" {
			_, _ = w.Write(img.Bytes())
			return
		}
		http.NotFound(w, r)
	}))
	defer remote.Close()

	svc, st, client := newService(t)
	client.On("PutObject", mock.Anything, "media", "wp-content/uploads/2024/01/cat.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", mock.Anything, "media", "wp-content/uploads/2024/01/cat-50x50.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	results, err := svc.Sync(context.Background(), content.SyncBatchRequest{
		Kind: "post",
		Records: []map[string]any{{
			"remote_id":     "1",
			"origin_source": remote.URL,
			"payload": map[string]any{
				"post_type":    "post",
				"post_title":   "With image",
				"post_name":    "with-image",
				"post_content": `<img src="` + remote.URL + `/wp-content/uploads/2024/01/cat.png">`,
				"featured_image": map[string]any{
					"post_title":     "Cat",
					"post_date":      "2024-01-05 10:00:00",
					"attachment_url": remote.URL + "/wp-content/uploads/2024/01/cat.png",
					"meta_input":     map[string]any{"press_sync_post_id": "55"},
				},
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, reconcile.StatusCreated, results[0].Status, results[0].Message)
	assert.Empty(t, results[0].Warnings)

	post, err := st.GetPost(context.Background(), results[0].LocalID)
	require.NoError(t, err)
	attachmentID, found, err := svc.Engine().Identity().Lookup(context.Background(), "attachment", "55", remote.URL)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(attachmentID), post.Meta[reconcile.ThumbnailMetaKey])

	att, err := st.GetPost(context.Background(), attachmentID)
	require.NoError(t, err)
	assert.Equal(t, "https://local.test/wp-content/uploads/2024/01/cat.png", att.GUID)
	assert.Equal(t, "image/png", att.MimeType)
	client.AssertExpectations(t)
}

func TestService_Connections(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	record := func(id, slug string, extra map[string]any) map[string]any {
		payload := map[string]any{"post_type": "post", "post_title": slug, "post_name": slug}
		for k, v := range extra {
			payload[k] = v
		}
		return map[string]any{"remote_id": id, "origin_source": "https://a.test", "payload": payload}
	}

	results, err := svc.Sync(ctx, content.SyncBatchRequest{
		Kind: "post",
		Records: []map[string]any{
			record("1", "first", nil),
			record("2", "second", map[string]any{
				content.ConnectionsField: []any{
					map[string]any{"p2p_from": "2", "p2p_to": "1", "p2p_type": "related"},
					map[string]any{"p2p_from": "2", "p2p_to": "99", "p2p_type": "related"},
				},
			}),
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	conns, err := st.Connections(ctx, results[1].LocalID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, results[0].LocalID, conns[0].ToID)
	assert.Equal(t, "related", conns[0].Type)
}

func TestService_ThresholdRejectsDissimilarDuplicate(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	_, err := st.CreatePost(ctx, &reconcile.Post{Type: "post", Name: "dup", Content: "completely different words"})
	require.NoError(t, err)

	results, err := svc.Sync(ctx, content.SyncBatchRequest{
		Kind:    "post",
		Options: &reconcile.Options{DuplicateAction: reconcile.DuplicateSync, ContentThreshold: 90},
		Records: []map[string]any{{
			"remote_id": "5", "origin_source": "https://a.test",
			"payload": map[string]any{"post_type": "post", "post_name": "dup", "post_content": "nothing alike at all here"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusCreated, results[0].Status)
}
