package models

import (
	"time"
)

// FileKind 文档文件类型
type FileKind string

const (
	// KindPDF PDF文档
	KindPDF FileKind = "pdf"
	// KindXLS Excel 97-2003 表格
	KindXLS FileKind = "xls"
	// KindXLSX Excel 表格
	KindXLSX FileKind = "xlsx"
	// KindCSV CSV 表格
	KindCSV FileKind = "csv"
)

// CardDateLayout 文档卡片上显示的日期格式
const CardDateLayout = "Jan 2, 2006"

// Page 文档中的一页内容
// 创建后不可修改
type Page struct {
	Number        int    `json:"number"`                   // 页码，从1开始
	Content       string `json:"content"`                  // 页面内容或可渲染的引用
	ExtractedData string `json:"extracted_data,omitempty"` // 提取的数据（可选）
}

// Document 已上传的文档
// 上传成功后创建，之后不可修改
type Document struct {
	ID         string    `json:"id"`          // 文档唯一ID
	Title      string    `json:"title"`       // 显示名称（原始文件名）
	UploadedAt time.Time `json:"date"`        // 上传时间
	Kind       FileKind  `json:"kind"`        // 文件类型
	ContentRef string    `json:"content_ref"` // 原始文件在存储中的ID
	Size       int64     `json:"size"`        // 文件大小（字节）
	Pages      []Page    `json:"pages"`       // 有序的页面列表
}

// PageCount 返回文档页数
func (d Document) PageCount() int {
	return len(d.Pages)
}

// CardDate 返回卡片展示用的上传日期
func (d Document) CardDate() string {
	return d.UploadedAt.Format(CardDateLayout)
}

// Clone 返回文档的深拷贝，防止调用方修改集合内部的页面切片
func (d Document) Clone() Document {
	pages := make([]Page, len(d.Pages))
	copy(pages, d.Pages)
	d.Pages = pages
	return d
}
