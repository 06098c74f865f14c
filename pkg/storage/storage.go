package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// FileInfo 文件元数据结构
type FileInfo struct {
	ID       string // 文件唯一标识符，即文档的内容引用
	Name     string // 原始文件名
	Size     int64  // 文件大小(字节)
	MimeType string // 文件MIME类型
	Path     string // 内部存储路径(实现相关)
}

// Storage 上传文件的存储接口
// 有本地文件系统、MinIO、GCS三种实现
type Storage interface {
	// Save 保存文件并返回文件信息
	Save(ctx context.Context, reader io.Reader, filename, mimeType string) (FileInfo, error)

	// Get 获取文件内容
	Get(ctx context.Context, id string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(ctx context.Context, id string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, id string) (bool, error)
}

// Config 存储配置
type Config struct {
	Type string // local, minio, gcs

	// 本地存储
	Path string

	// MinIO / GCS 共用
	Bucket string
	Prefix string

	// MinIO
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New 根据配置创建存储实现
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(LocalConfig{Path: cfg.Path})
	case "minio":
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
	case "gcs":
		return NewGCSStorage(ctx, GCSConfig{
			Bucket: cfg.Bucket,
			Prefix: cfg.Prefix,
		})
	default:
		return nil, errors.New("unsupported storage type: " + cfg.Type)
	}
}

// newID 生成文件ID
func newID() string {
	return uuid.New().String()
}

// validID 文件ID必须是UUID，避免拼接路径时越界
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// objectName 对象存储中的对象名
func objectName(prefix, id string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return id
	}
	return prefix + "/" + id
}

// mimeTypeOrDefault 未提供MIME类型时使用通用二进制类型
// 上传的类型由校验器按扩展名解析后传入
func mimeTypeOrDefault(mimeType string) string {
	if mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
