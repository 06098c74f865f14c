package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fyerfyer/doc-dashboard/api/middleware"
	"github.com/fyerfyer/doc-dashboard/api/model"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/fyerfyer/doc-dashboard/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	service *services.DashboardService // 文档面板服务
	logger  *logrus.Logger             // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(service *services.DashboardService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// CollectionStatus 返回集合状态
// GET /api/collection
func (h *DocumentHandler) CollectionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, model.NewSuccessResponse(h.service.Status()))
}

// UploadDocument 处理文档上传请求
// POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	var req model.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("No file provided", err.Error()))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": req.File.Filename,
		}).Error("Failed to open uploaded file")
		middleware.HandleError(c, middleware.NewInternalError("Could not open uploaded file", err.Error()))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), services.FileUpload{
		Name:         req.File.Filename,
		DeclaredType: req.File.Header.Get("Content-Type"),
		Size:         req.File.Size,
		Body:         file,
	})
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, model.NewSuccessResponse(model.NewDocumentCard(doc)))
}

// ListDocuments 获取文档列表，按上传顺序
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs := h.service.Documents()
	status := h.service.Status()

	cards := make([]model.DocumentCard, 0, len(docs))
	for _, doc := range docs {
		cards = append(cards, model.NewDocumentCard(doc))
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentListResponse{
		Total:     len(cards),
		Capacity:  status.Capacity,
		Full:      status.Full,
		Documents: cards,
	}))
}

// GetDocument 获取文档详情
// GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var req model.DocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid document ID", err.Error()))
		return
	}

	doc, err := h.service.Document(req.ID)
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentDetail{
		DocumentCard: model.NewDocumentCard(doc),
		UploadedAt:   doc.UploadedAt.Format(time.RFC3339),
		ContentURL:   fmt.Sprintf("/api/documents/%s/content", doc.ID),
		Pages:        doc.Pages,
	}))
}

// GetContent 返回文档的原始文件，供客户端渲染PDF页面
// GET /api/documents/:id/content
func (h *DocumentHandler) GetContent(c *gin.Context) {
	var req model.DocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid document ID", err.Error()))
		return
	}

	rc, doc, err := h.service.Content(c.Request.Context(), req.ID)
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, doc.Size, upload.MimeTypeOf(doc.Kind), rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", doc.Title),
	})
}
