package handler

import (
	"net/http"

	"github.com/fyerfyer/doc-dashboard/api/middleware"
	"github.com/fyerfyer/doc-dashboard/api/model"
	"github.com/fyerfyer/doc-dashboard/internal/preview"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PreviewHandler 处理预览翻页请求
type PreviewHandler struct {
	service *services.DashboardService
	logger  *logrus.Logger
}

// NewPreviewHandler 创建预览处理器
func NewPreviewHandler(service *services.DashboardService) *PreviewHandler {
	return &PreviewHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// OpenPreview 打开文档预览
// POST /api/documents/:id/preview
func (h *PreviewHandler) OpenPreview(c *gin.Context) {
	var req model.DocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid document ID", err.Error()))
		return
	}
	layout, ok := bindLayout(c)
	if !ok {
		return
	}

	sid, view, err := h.service.OpenPreview(req.ID, layout)
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, model.NewSuccessResponse(model.PreviewResponse{SessionID: sid, View: view}))
}

// GetPreview 获取预览当前状态
// GET /api/previews/:sid
func (h *PreviewHandler) GetPreview(c *gin.Context) {
	sid, layout, ok := bindPreview(c)
	if !ok {
		return
	}

	view, err := h.service.Preview(sid, layout)
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.PreviewResponse{SessionID: sid, View: view}))
}

// Next 翻到下一页
// POST /api/previews/:sid/next
func (h *PreviewHandler) Next(c *gin.Context) {
	h.navigate(c, services.ActionNext, 0)
}

// Previous 翻到上一页
// POST /api/previews/:sid/previous
func (h *PreviewHandler) Previous(c *gin.Context) {
	h.navigate(c, services.ActionPrevious, 0)
}

// GoTo 跳转到指定页，提取快捷方式也走这里
// POST /api/previews/:sid/goto
func (h *PreviewHandler) GoTo(c *gin.Context) {
	var req model.GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Page number is required", err.Error()))
		return
	}
	h.navigate(c, services.ActionGoTo, *req.Page)
}

// ClosePreview 关闭预览
// DELETE /api/previews/:sid
func (h *PreviewHandler) ClosePreview(c *gin.Context) {
	var req model.PreviewRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid preview ID", err.Error()))
		return
	}

	if err := h.service.ClosePreview(req.SessionID); err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(gin.H{"session_id": req.SessionID, "closed": true}))
}

func (h *PreviewHandler) navigate(c *gin.Context, action services.Action, page int) {
	sid, layout, ok := bindPreview(c)
	if !ok {
		return
	}

	view, err := h.service.Navigate(sid, action, page, layout)
	if err != nil {
		middleware.HandleError(c, toAppError(err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"session_id": sid,
		"action":     action,
		"page":       view.Page,
	}).Debug("Preview navigated")

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.PreviewResponse{SessionID: sid, View: view}))
}

func bindPreview(c *gin.Context) (string, preview.Layout, bool) {
	var req model.PreviewRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid preview ID", err.Error()))
		return "", "", false
	}
	layout, ok := bindLayout(c)
	if !ok {
		return "", "", false
	}
	return req.SessionID, layout, true
}

// bindLayout 解析layout查询参数，未指定时返回空值交给服务使用默认展示方式
func bindLayout(c *gin.Context) (preview.Layout, bool) {
	var q model.LayoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid query parameters", err.Error()))
		return "", false
	}
	layout, err := preview.ParseLayout(q.Layout, "")
	if err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Layout must be horizontal or vertical", err.Error()))
		return "", false
	}
	return layout, true
}
