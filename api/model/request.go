package model

import (
	"mime/multipart"
)

// DocumentUploadRequest 文档上传请求
type DocumentUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"` // 文件对象
}

// DocumentRequest 指定文档的请求
type DocumentRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// PreviewRequest 指定预览会话的请求
type PreviewRequest struct {
	SessionID string `uri:"sid" binding:"required"` // 预览会话ID
}

// LayoutQuery 预览展示方式
type LayoutQuery struct {
	Layout string `form:"layout"` // horizontal 或 vertical
}

// GoToRequest 跳转请求，超出范围的页码会被收敛到首页或末页
type GoToRequest struct {
	Page *int `json:"page" binding:"required"` // 目标页码，从1开始
}
