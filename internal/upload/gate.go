package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/go-playground/validator/v10"
)

// DefaultMaxSize 默认的单文件大小上限（10MB）
const DefaultMaxSize int64 = 10 * 1024 * 1024

// Reason 拒绝原因
type Reason string

const (
	// UnsupportedType 文件类型不在允许列表中
	UnsupportedType Reason = "unsupported_type"
	// TooLarge 文件超过大小上限
	TooLarge Reason = "too_large"
)

// ErrInvalidFile 上传的文件信息不完整
var ErrInvalidFile = errors.New("invalid upload file")

// Rejection 上传被拒绝
// Message 是展示给用户的提示
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("upload rejected (%s): %s", r.Reason, r.Message)
}

// IsRejection 判断错误是否为指定原因的拒绝
func IsRejection(err error, reason Reason) bool {
	var rej *Rejection
	return errors.As(err, &rej) && rej.Reason == reason
}

// Candidate 待校验的上传文件
type Candidate struct {
	Name         string `validate:"required"`          // 原始文件名
	DeclaredType string `validate:"omitempty,max=255"` // 客户端声明的MIME类型
	Size         int64  `validate:"gte=0"`             // 文件大小（字节）
}

// AcceptedFile 通过校验的文件，可以包装成文档
type AcceptedFile struct {
	Name     string
	Kind     models.FileKind
	MimeType string
	Size     int64
}

// Config 上传校验配置
type Config struct {
	AllowedKinds []models.FileKind // 允许的类型，为空时允许全部
	MaxSize      int64             // 大小上限，<=0时使用默认值
}

// Gate 上传校验器
type Gate struct {
	allowed  map[models.FileKind]bool
	specs    []KindSpec
	maxSize  int64
	validate *validator.Validate
}

// NewGate 创建上传校验器
func NewGate(cfg Config) (*Gate, error) {
	g := &Gate{
		allowed:  make(map[models.FileKind]bool),
		maxSize:  cfg.MaxSize,
		validate: validator.New(),
	}
	if g.maxSize <= 0 {
		g.maxSize = DefaultMaxSize
	}

	kinds := cfg.AllowedKinds
	if len(kinds) == 0 {
		kinds = AllKinds()
	}
	for _, kind := range kinds {
		spec, ok := LookupKind(string(kind))
		if !ok {
			return nil, fmt.Errorf("unknown file type in allow-list: %s", kind)
		}
		g.allowed[spec.Kind] = true
	}
	for _, spec := range knownKinds {
		if g.allowed[spec.Kind] {
			g.specs = append(g.specs, spec)
		}
	}

	return g, nil
}

// MaxSize 返回大小上限
func (g *Gate) MaxSize() int64 {
	return g.maxSize
}

// AllowedKinds 返回允许的类型
func (g *Gate) AllowedKinds() []models.FileKind {
	kinds := make([]models.FileKind, 0, len(g.specs))
	for _, spec := range g.specs {
		kinds = append(kinds, spec.Kind)
	}
	return kinds
}

// Accepts 返回 accept 属性可用的MIME类型和扩展名列表
func (g *Gate) Accepts() map[string][]string {
	out := make(map[string][]string, len(g.specs))
	for _, spec := range g.specs {
		out[spec.MimeType] = append([]string(nil), spec.Extensions...)
	}
	return out
}

// Describe 返回上传对话框中的提示文案
func (g *Gate) Describe() string {
	return fmt.Sprintf("%s files are allowed (max %s)", g.labels(), formatSize(g.maxSize))
}

// Validate 校验上传文件
// 超过大小上限时无论类型如何都返回TooLarge
func (g *Gate) Validate(c Candidate) (AcceptedFile, error) {
	if err := g.validate.Struct(c); err != nil {
		return AcceptedFile{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if c.Size > g.maxSize {
		return AcceptedFile{}, &Rejection{
			Reason:  TooLarge,
			Message: fmt.Sprintf("File size must be less than %s", formatSize(g.maxSize)),
		}
	}

	spec, ok := g.resolve(c)
	if !ok {
		return AcceptedFile{}, &Rejection{
			Reason:  UnsupportedType,
			Message: g.unsupportedMessage(),
		}
	}

	return AcceptedFile{
		Name:     c.Name,
		Kind:     spec.Kind,
		MimeType: spec.MimeType,
		Size:     c.Size,
	}, nil
}

// resolve 同时参考扩展名和声明的类型
// 扩展名能识别时以扩展名为准；扩展名无法识别时拒绝；
// 没有扩展名时才使用声明的类型
func (g *Gate) resolve(c Candidate) (KindSpec, bool) {
	spec, ok := kindByExtension(c.Name)
	if !ok {
		if filepath.Ext(c.Name) != "" {
			return KindSpec{}, false
		}
		spec, ok = kindByMime(c.DeclaredType)
	}
	if !ok || !g.allowed[spec.Kind] {
		return KindSpec{}, false
	}
	return spec, true
}

func (g *Gate) unsupportedMessage() string {
	if len(g.specs) == 1 && g.specs[0].Kind == models.KindPDF {
		return "Please upload a valid PDF file."
	}
	return fmt.Sprintf("Only %s files are allowed", g.labels())
}

// labels 生成 "XLSX, XLS, CSV, and PDF" 形式的类型列表
func (g *Gate) labels() string {
	names := make([]string, 0, len(g.specs))
	for _, spec := range g.specs {
		names = append(names, spec.Label)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// formatSize 以MB为单位格式化大小
func formatSize(size int64) string {
	const mb = 1024 * 1024
	if size%mb == 0 {
		return fmt.Sprintf("%dMB", size/mb)
	}
	return fmt.Sprintf("%.1fMB", float64(size)/mb)
}
