package document

import (
	"context"
	"fmt"
	"io"

	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// PageMode 页面生成方式
type PageMode string

const (
	// ModeRender PDF按真实页数生成可渲染的页面引用
	ModeRender PageMode = "render"
	// ModePlaceholder 所有文件都使用占位内容
	ModePlaceholder PageMode = "placeholder"
)

// ParsePageMode 解析页面生成方式，空值返回ModeRender
func ParsePageMode(s string) (PageMode, error) {
	switch PageMode(s) {
	case "", ModeRender:
		return ModeRender, nil
	case ModePlaceholder:
		return ModePlaceholder, nil
	default:
		return "", fmt.Errorf("unknown page mode: %s", s)
	}
}

// PageCounter 统计PDF页数，只读取文档结构，不提取文本
type PageCounter interface {
	Count(rs io.ReadSeeker) (int, error)
}

// Builder 为新上传的文件生成页面列表
type Builder struct {
	mode    PageMode
	counter PageCounter
	logger  *logrus.Logger
}

// BuilderOption 页面生成器配置选项
type BuilderOption func(*Builder)

// WithPageCounter 设置PDF页数统计器
func WithPageCounter(counter PageCounter) BuilderOption {
	return func(b *Builder) {
		if counter != nil {
			b.counter = counter
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder 创建页面生成器
func NewBuilder(mode PageMode, opts ...BuilderOption) *Builder {
	if mode == "" {
		mode = ModeRender
	}
	b := &Builder{
		mode:    mode,
		counter: NewPDFPageCounter(),
		logger:  logrus.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mode 返回页面生成方式
func (b *Builder) Mode() PageMode {
	return b.mode
}

// Build 生成页面列表
// 只有render模式下的PDF会读取blob，统计失败时退回占位页
func (b *Builder) Build(ctx context.Context, kind models.FileKind, contentRef string, blob io.ReadSeeker) ([]models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if b.mode != ModeRender || kind != models.KindPDF || blob == nil {
		return PlaceholderPages(), nil
	}

	count, err := b.counter.Count(blob)
	if err != nil || count < 1 {
		fields := logrus.Fields{"content_ref": contentRef}
		if err != nil {
			fields["error"] = err.Error()
		}
		b.logger.WithFields(fields).Warn("Could not count PDF pages, using placeholder pages")
		return PlaceholderPages(), nil
	}

	return ReferencePages(contentRef, count), nil
}

// ReferencePages 生成指向原始文件各页的引用，由客户端渲染
func ReferencePages(contentRef string, count int) []models.Page {
	pages := make([]models.Page, count)
	for i := range pages {
		pages[i] = models.Page{
			Number:  i + 1,
			Content: PageRef(contentRef, i+1),
		}
	}
	return pages
}

// PageRef 生成单页的渲染引用
func PageRef(contentRef string, page int) string {
	return fmt.Sprintf("%s#page=%d", contentRef, page)
}
