package model

import (
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/preview"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// DocumentCard 文档卡片，网格中展示的一项
type DocumentCard struct {
	ID        string          `json:"id"`         // 文档ID
	Title     string          `json:"title"`      // 文件名
	Date      string          `json:"date"`       // 上传日期，例如 Jan 2, 2006
	Kind      models.FileKind `json:"kind"`       // 文件类型
	Size      int64           `json:"size"`       // 文件大小
	PageCount int             `json:"page_count"` // 页数
}

// NewDocumentCard 把文档转成卡片
func NewDocumentCard(doc models.Document) DocumentCard {
	return DocumentCard{
		ID:        doc.ID,
		Title:     doc.Title,
		Date:      doc.CardDate(),
		Kind:      doc.Kind,
		Size:      doc.Size,
		PageCount: doc.PageCount(),
	}
}

// DocumentDetail 文档详情，包含所有页面
type DocumentDetail struct {
	DocumentCard
	UploadedAt string        `json:"uploaded_at"` // RFC3339格式的上传时间
	ContentURL string        `json:"content_url"` // 原始文件地址
	Pages      []models.Page `json:"pages"`       // 页面列表
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Total     int            `json:"total"`     // 总数量
	Capacity  int            `json:"capacity"`  // 上限，0表示不限制
	Full      bool           `json:"full"`      // 是否已满
	Documents []DocumentCard `json:"documents"` // 按上传顺序排列
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	SessionID string `json:"session_id"` // 预览会话ID
	preview.View
}
