package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage Google Cloud Storage存储实现
type GCSStorage struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
	prefix string
}

// GCSConfig GCS存储配置，凭据来自默认应用凭据
type GCSConfig struct {
	Bucket string
	Prefix string
}

// NewGCSStorage 创建GCS存储实例
func NewGCSStorage(ctx context.Context, cfg GCSConfig) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket must be provided to create a GCS storage")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		prefix: cfg.Prefix,
	}, nil
}

// Save 上传文件，对象已存在时不覆盖
func (s *GCSStorage) Save(ctx context.Context, reader io.Reader, filename, mimeType string) (FileInfo, error) {
	id := newID()
	name := objectName(s.prefix, id)
	contentType := mimeTypeOrDefault(mimeType)

	// 复制失败时取消ctx放弃上传，Close会把已写入的部分提交成对象
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := s.bucket.Object(name).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = map[string]string{"filename": filename}

	size, err := io.Copy(writer, reader)
	if err != nil {
		cancel()
		return FileInfo{}, fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return FileInfo{}, fmt.Errorf("failed to finalize GCS write: %w", err)
	}

	return FileInfo{
		ID:       id,
		Name:     filename,
		Size:     size,
		MimeType: contentType,
		Path:     name,
	}, nil
}

// Get 获取GCS中的文件
func (s *GCSStorage) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r, err := s.bucket.Object(objectName(s.prefix, id)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object: %w", err)
	}
	return r, nil
}

// Delete 删除GCS中的文件
func (s *GCSStorage) Delete(ctx context.Context, id string) error {
	err := s.bucket.Object(objectName(s.prefix, id)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Exists 检查GCS中是否存在指定ID的文件
func (s *GCSStorage) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	_, err := s.bucket.Object(objectName(s.prefix, id)).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close 关闭GCS客户端
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
