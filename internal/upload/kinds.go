package upload

import (
	"path/filepath"
	"strings"

	"github.com/fyerfyer/doc-dashboard/internal/models"
)

// KindSpec 允许上传的文件类型：声明的MIME类型和扩展名
type KindSpec struct {
	Kind       models.FileKind
	MimeType   string
	Extensions []string
	Label      string // 提示文案中使用的名称
}

// knownKinds 所有可被接受的文件类型，顺序即提示文案中的顺序
var knownKinds = []KindSpec{
	{
		Kind:       models.KindXLSX,
		MimeType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extensions: []string{".xlsx"},
		Label:      "XLSX",
	},
	{
		Kind:       models.KindXLS,
		MimeType:   "application/vnd.ms-excel",
		Extensions: []string{".xls"},
		Label:      "XLS",
	},
	{
		Kind:       models.KindCSV,
		MimeType:   "text/csv",
		Extensions: []string{".csv"},
		Label:      "CSV",
	},
	{
		Kind:       models.KindPDF,
		MimeType:   "application/pdf",
		Extensions: []string{".pdf"},
		Label:      "PDF",
	},
}

// AllKinds 返回所有支持的文件类型
func AllKinds() []models.FileKind {
	kinds := make([]models.FileKind, 0, len(knownKinds))
	for _, spec := range knownKinds {
		kinds = append(kinds, spec.Kind)
	}
	return kinds
}

// LookupKind 根据名称查找文件类型
func LookupKind(name string) (KindSpec, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	for _, spec := range knownKinds {
		if string(spec.Kind) == name {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// MimeTypeOf 返回文件类型对应的MIME类型
func MimeTypeOf(kind models.FileKind) string {
	for _, spec := range knownKinds {
		if spec.Kind == kind {
			return spec.MimeType
		}
	}
	return "application/octet-stream"
}

// kindByMime 按声明的MIME类型匹配，忽略参数部分（如 charset）
func kindByMime(declared string) (KindSpec, bool) {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, spec := range knownKinds {
		if spec.MimeType == mt {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// kindByExtension 按文件扩展名匹配
func kindByExtension(name string) (KindSpec, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return KindSpec{}, false
	}
	for _, spec := range knownKinds {
		for _, e := range spec.Extensions {
			if e == ext {
				return spec, true
			}
		}
	}
	return KindSpec{}, false
}
