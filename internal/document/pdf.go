package document

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFPageCounter 基于pdfcpu的页数统计
type PDFPageCounter struct {
	conf *model.Configuration
}

// NewPDFPageCounter 创建PDF页数统计器，使用宽松校验
func NewPDFPageCounter() *PDFPageCounter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFPageCounter{conf: conf}
}

// Count 返回PDF页数
func (c *PDFPageCounter) Count(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind PDF: %w", err)
	}
	count, err := api.PageCount(rs, c.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF page count: %w", err)
	}
	return count, nil
}
