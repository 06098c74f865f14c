package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fyerfyer/doc-dashboard/internal/collection"
	"github.com/fyerfyer/doc-dashboard/internal/document"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/preview"
	"github.com/fyerfyer/doc-dashboard/internal/upload"
	"github.com/fyerfyer/doc-dashboard/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DashboardService 文档面板服务
// 串联上传校验、文件存储、页面生成、文档集合和预览会话
type DashboardService struct {
	gate            *upload.Gate
	files           storage.Storage
	builder         *document.Builder
	docs            *collection.Store
	previews        *preview.SessionManager
	defaultLayout   preview.Layout
	extractionLimit int
	logger          *logrus.Logger
}

// DashboardOption 服务配置选项
type DashboardOption func(*DashboardService)

// NewDashboardService 创建文档面板服务
func NewDashboardService(
	gate *upload.Gate,
	files storage.Storage,
	builder *document.Builder,
	docs *collection.Store,
	opts ...DashboardOption,
) *DashboardService {
	srv := &DashboardService{
		gate:            gate,
		files:           files,
		builder:         builder,
		docs:            docs,
		defaultLayout:   preview.Horizontal,
		extractionLimit: preview.DefaultExtractionLimit,
		logger:          logrus.New(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.previews == nil {
		srv.previews = preview.NewSessionManager(preview.DefaultSessionTTL)
	}
	return srv
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) DashboardOption {
	return func(s *DashboardService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionManager 设置预览会话管理器
func WithSessionManager(m *preview.SessionManager) DashboardOption {
	return func(s *DashboardService) {
		s.previews = m
	}
}

// WithDefaultLayout 设置默认预览展示方式
func WithDefaultLayout(layout preview.Layout) DashboardOption {
	return func(s *DashboardService) {
		if layout != "" {
			s.defaultLayout = layout
		}
	}
}

// WithExtractionLimit 设置提取快捷方式数量上限
func WithExtractionLimit(limit int) DashboardOption {
	return func(s *DashboardService) {
		if limit > 0 {
			s.extractionLimit = limit
		}
	}
}

// FileUpload 一次文件上传
type FileUpload struct {
	Name         string    // 原始文件名
	DeclaredType string    // 客户端声明的MIME类型
	Size         int64     // 客户端声明的大小
	Body         io.Reader // 文件内容
}

// CollectionStatus 集合状态，决定上传按钮是否可用
type CollectionStatus struct {
	Count        int                 `json:"count"`
	Capacity     int                 `json:"capacity"` // 0表示不限制
	Full         bool                `json:"full"`
	MaxSize      int64               `json:"max_size"`
	AllowedKinds []models.FileKind   `json:"allowed_kinds"`
	Accept       map[string][]string `json:"accept"`
	Hint         string              `json:"hint"`
	PageMode     document.PageMode   `json:"page_mode"`
}

// Upload 校验并保存上传的文件，生成文档加入集合
func (s *DashboardService) Upload(ctx context.Context, f FileUpload) (models.Document, error) {
	log := s.logger.WithFields(logrus.Fields{
		"filename": f.Name,
		"size":     f.Size,
	})

	// 满了就不必再校验和写文件
	if s.docs.Full() {
		log.Info("Upload refused, collection is full")
		return models.Document{}, models.ErrCollectionFull
	}

	accepted, err := s.gate.Validate(upload.Candidate{
		Name:         f.Name,
		DeclaredType: f.DeclaredType,
		Size:         f.Size,
	})
	if err != nil {
		log.WithError(err).Info("Upload rejected")
		return models.Document{}, err
	}

	if f.Body == nil {
		return models.Document{}, fmt.Errorf("%w: empty body", upload.ErrInvalidFile)
	}

	// 声明的大小可能不准，按实际读到的字节再确认一次
	data, err := io.ReadAll(io.LimitReader(f.Body, s.gate.MaxSize()+1))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) != accepted.Size {
		if _, err := s.gate.Validate(upload.Candidate{
			Name:         f.Name,
			DeclaredType: f.DeclaredType,
			Size:         int64(len(data)),
		}); err != nil {
			log.WithError(err).Info("Upload rejected")
			return models.Document{}, err
		}
	}

	info, err := s.files.Save(ctx, bytes.NewReader(data), accepted.Name, accepted.MimeType)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to save file: %w", err)
	}

	pages, err := s.builder.Build(ctx, accepted.Kind, info.ID, bytes.NewReader(data))
	if err != nil {
		s.discard(ctx, info.ID)
		return models.Document{}, fmt.Errorf("failed to build pages: %w", err)
	}

	doc := models.Document{
		ID:         uuid.New().String(),
		Title:      accepted.Name,
		Kind:       accepted.Kind,
		ContentRef: info.ID,
		Size:       info.Size,
		Pages:      pages,
	}
	if err := s.docs.Add(ctx, doc); err != nil {
		// 并发上传时可能在检查之后才满
		s.discard(ctx, info.ID)
		return models.Document{}, err
	}

	saved, err := s.docs.Select(doc.ID)
	if err != nil {
		return models.Document{}, err
	}

	log.WithFields(logrus.Fields{
		"document_id": saved.ID,
		"kind":        saved.Kind,
		"pages":       saved.PageCount(),
	}).Info("Document uploaded successfully")

	return saved, nil
}

// discard 删除已经写入但没能加入集合的文件
func (s *DashboardService) discard(ctx context.Context, contentRef string) {
	if err := s.files.Delete(ctx, contentRef); err != nil {
		s.logger.WithFields(logrus.Fields{
			"content_ref": contentRef,
			"error":       err.Error(),
		}).Warn("Failed to remove orphaned upload")
	}
}

// Documents 按上传顺序返回所有文档
func (s *DashboardService) Documents() []models.Document {
	return s.docs.List()
}

// Document 获取单个文档
func (s *DashboardService) Document(id string) (models.Document, error) {
	return s.docs.Select(id)
}

// Content 打开文档的原始文件，调用方负责关闭
func (s *DashboardService) Content(ctx context.Context, id string) (io.ReadCloser, models.Document, error) {
	doc, err := s.docs.Select(id)
	if err != nil {
		return nil, models.Document{}, err
	}

	rc, err := s.files.Get(ctx, doc.ContentRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, doc, fmt.Errorf("%w: content of %s is missing", models.ErrDocumentNotFound, id)
		}
		return nil, doc, err
	}
	return rc, doc, nil
}

// Status 返回集合状态
func (s *DashboardService) Status() CollectionStatus {
	return CollectionStatus{
		Count:        s.docs.Len(),
		Capacity:     s.docs.Cap(),
		Full:         s.docs.Full(),
		MaxSize:      s.gate.MaxSize(),
		AllowedKinds: s.gate.AllowedKinds(),
		Accept:       s.gate.Accepts(),
		Hint:         s.gate.Describe(),
		PageMode:     s.builder.Mode(),
	}
}

// Action 预览翻页动作
type Action string

const (
	// ActionNext 下一页
	ActionNext Action = "next"
	// ActionPrevious 上一页
	ActionPrevious Action = "previous"
	// ActionGoTo 跳转到指定页
	ActionGoTo Action = "goto"
)

// ErrUnknownAction 不支持的翻页动作
var ErrUnknownAction = errors.New("unknown preview action")

// OpenPreview 打开文档预览，从第一页开始
func (s *DashboardService) OpenPreview(id string, layout preview.Layout) (string, preview.View, error) {
	doc, err := s.docs.Select(id)
	if err != nil {
		return "", preview.View{}, err
	}

	session := s.previews.Open(doc)
	s.logger.WithFields(logrus.Fields{
		"document_id": id,
		"session_id":  session.ID,
	}).Debug("Preview opened")

	return session.ID, session.Render(s.layout(layout), s.extractionLimit), nil
}

// Preview 返回预览的当前状态
func (s *DashboardService) Preview(sessionID string, layout preview.Layout) (preview.View, error) {
	session, err := s.previews.Get(sessionID)
	if err != nil {
		return preview.View{}, err
	}
	return session.Render(s.layout(layout), s.extractionLimit), nil
}

// Navigate 执行翻页动作后返回新状态
// page只在ActionGoTo时使用，从1开始
func (s *DashboardService) Navigate(sessionID string, action Action, page int, layout preview.Layout) (preview.View, error) {
	var step func(nav *preview.Navigator)
	switch action {
	case ActionNext:
		step = func(nav *preview.Navigator) { nav.Next() }
	case ActionPrevious:
		step = func(nav *preview.Navigator) { nav.Previous() }
	case ActionGoTo:
		step = func(nav *preview.Navigator) { nav.GoTo(page) }
	default:
		return preview.View{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	session, err := s.previews.Get(sessionID)
	if err != nil {
		return preview.View{}, err
	}
	session.Do(step)

	return session.Render(s.layout(layout), s.extractionLimit), nil
}

// ClosePreview 关闭预览，丢弃翻页状态
func (s *DashboardService) ClosePreview(sessionID string) error {
	if err := s.previews.Close(sessionID); err != nil {
		return err
	}
	s.logger.WithField("session_id", sessionID).Debug("Preview closed")
	return nil
}

func (s *DashboardService) layout(l preview.Layout) preview.Layout {
	if l == "" {
		return s.defaultLayout
	}
	return l
}
