package document

import (
	"fmt"

	"github.com/fyerfyer/doc-dashboard/internal/models"
)

// placeholderPageCount 占位文档的页数
const placeholderPageCount = 2

// PlaceholderPages 生成固定的占位页面
func PlaceholderPages() []models.Page {
	pages := make([]models.Page, placeholderPageCount)
	for i := range pages {
		n := i + 1
		pages[i] = models.Page{
			Number:        n,
			Content:       fmt.Sprintf("Sample content for page %d", n),
			ExtractedData: fmt.Sprintf("Sample extracted data for page %d", n),
		}
	}
	return pages
}
