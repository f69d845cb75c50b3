package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"site-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_Image(t *testing.T) {
	client := new(mocks.Client)
	data := pngBytes(t, 300, 200)

	client.On("PutObject", mock.Anything, "media", "wp-content/uploads/2024/01/cat.png", mock.Anything, int64(len(data)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "image/png" })).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", mock.Anything, "media", "wp-content/uploads/2024/01/cat-150x150.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	s := NewStore(client, "media", 150, 150, nil)
	asset, err := s.Store(context.Background(), "wp-content/uploads/2024/01/cat.png", data)
	require.NoError(t, err)

	assert.Equal(t, "image/png", asset.MimeType)
	assert.Equal(t, 300, asset.Width)
	assert.Equal(t, 200, asset.Height)
	assert.Equal(t, int64(len(data)), asset.Size)
	assert.Equal(t, map[string]string{ThumbnailSize: "wp-content/uploads/2024/01/cat-150x150.png"}, asset.Sizes)
	client.AssertExpectations(t)
}

func TestStore_NonImage(t *testing.T) {
	client := new(mocks.Client)
	data := []byte("%PDF-1.4\n%âãÏÓ\n")

	client.On("PutObject", mock.Anything, "media", "docs/manual.pdf", mock.Anything, int64(len(data)), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	s := NewStore(client, "media", 150, 150, nil)
	asset, err := s.Store(context.Background(), "docs/manual.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", asset.MimeType)
	assert.Empty(t, asset.Sizes)
	client.AssertExpectations(t)
}

func TestStore_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "media", "a.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket offline"))

	s := NewStore(client, "media", 150, 150, nil)
	_, err := s.Store(context.Background(), "a.png", pngBytes(t, 10, 10))
	assert.ErrorContains(t, err, "bucket offline")
}

func TestStore_ThumbnailFailureRemovesOriginal(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "media", "a.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("PutObject", mock.Anything, "media", "a-150x150.png", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota"))
	client.On("RemoveObject", mock.Anything, "media", "a.png", mock.Anything).Return(nil).Once()

	s := NewStore(client, "media", 150, 150, nil)
	_, err := s.Store(context.Background(), "a.png", pngBytes(t, 10, 10))
	assert.ErrorContains(t, err, "quota")
	client.AssertExpectations(t)
}

func TestStore_Open(t *testing.T) {
	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, "media", "a.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "a.txt", Size: 5, ContentType: "text/plain"}, nil)
	client.On("GetObject", mock.Anything, "media", "a.txt", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("hello"))), nil)

	s := NewStore(client, "media", 0, 0, nil)
	r, info, err := s.Open(context.Background(), "a.txt")
	require.NoError(t, err)
	defer r.Close()

	body, _ := io.ReadAll(r)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain", info.ContentType)
}

func TestDerivativeKey(t *testing.T) {
	assert.Equal(t, "2024/01/cat-150x150.jpg", DerivativeKey("2024/01/cat.jpg", 150, 150))
	assert.Equal(t, "noext-10x20", DerivativeKey("noext", 10, 20))
}
