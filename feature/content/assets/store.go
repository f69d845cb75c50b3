package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"site-sync/core/reconcile"
	"site-sync/core/storage"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ThumbnailSize is the derivative name of the generated thumbnail.
const ThumbnailSize = "thumbnail"

// Store writes fetched binaries to the media bucket and generates their
// thumbnail.
type Store struct {
	client storage.Client
	bucket string
	thumbW int
	thumbH int
	logger *zap.Logger
}

var _ reconcile.AssetStore = (*Store)(nil)

// NewStore creates an asset store over bucket.
func NewStore(client storage.Client, bucket string, thumbW, thumbH int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, bucket: bucket, thumbW: thumbW, thumbH: thumbH, logger: logger}
}

// Store uploads data under key. Decodable images also get a thumbnail; if
// the thumbnail cannot be written the original is removed again.
func (s *Store) Store(ctx context.Context, key string, data []byte) (*reconcile.StoredAsset, error) {
	mt := mimetype.Detect(data)
	asset := &reconcile.StoredAsset{
		Key:      key,
		MimeType: mt.String(),
		Size:     int64(len(data)),
	}

	// 1. Original
	if err := s.put(ctx, key, data, asset.MimeType); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(asset.MimeType, "image/") || s.thumbW <= 0 || s.thumbH <= 0 {
		return asset, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Debug("Skipping derivatives of undecodable image", zap.String("key", key), zap.Error(err))
		return asset, nil
	}
	bounds := img.Bounds()
	asset.Width, asset.Height = bounds.Dx(), bounds.Dy()

	// 2. Thumbnail
	format, err := imaging.FormatFromFilename(key)
	if err != nil {
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	thumb := imaging.Thumbnail(img, s.thumbW, s.thumbH, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		s.cleanup(ctx, key)
		return nil, fmt.Errorf("failed to encode thumbnail of %s: %w", key, err)
	}

	thumbKey := DerivativeKey(key, s.thumbW, s.thumbH)
	if err := s.put(ctx, thumbKey, buf.Bytes(), asset.MimeType); err != nil {
		s.cleanup(ctx, key)
		return nil, err
	}
	asset.Sizes = map[string]string{ThumbnailSize: thumbKey}
	return asset, nil
}

// Open returns a reader over the object at key with its metadata.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, err
	}
	return obj, info, nil
}

func (s *Store) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *Store) cleanup(ctx context.Context, key string) {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warn("Failed to remove partial upload", zap.String("key", key), zap.Error(err))
	}
}

// DerivativeKey names a resized copy of key: dir/name-WxH.ext.
func DerivativeKey(key string, w, h int) string {
	ext := path.Ext(key)
	return fmt.Sprintf("%s-%dx%d%s", strings.TrimSuffix(key, ext), w, h, ext)
}
