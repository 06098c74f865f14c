package preview

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-dashboard/internal/models"
)

// Layout 预览的展示方式
type Layout string

const (
	// Horizontal 单页展示，左右翻页
	Horizontal Layout = "horizontal"
	// Vertical 所有页纵向排列，滚动到当前页
	Vertical Layout = "vertical"
)

// ParseLayout 解析展示方式，空值返回默认值
func ParseLayout(s string, fallback Layout) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	default:
		return "", fmt.Errorf("unknown preview layout: %s", s)
	}
}

// PageView 单页的展示内容
type PageView struct {
	Number        int    `json:"number"`
	Content       string `json:"content"`
	ExtractedData string `json:"extracted_data,omitempty"`
	Anchor        string `json:"anchor"`
}

// View 预览的展示数据
type View struct {
	Layout      Layout       `json:"layout"`
	DocumentID  string       `json:"document_id"`
	Title       string       `json:"title"`
	Page        int          `json:"page"`
	PageCount   int          `json:"page_count"`
	Label       string       `json:"label"`
	HasPrevious bool         `json:"has_previous"`
	HasNext     bool         `json:"has_next"`
	Current     *PageView    `json:"current,omitempty"`   // horizontal
	Pages       []PageView   `json:"pages,omitempty"`     // vertical
	ScrollTo    string       `json:"scroll_to,omitempty"` // vertical
	Extractions []Extraction `json:"extractions"`
}

// Renderer 将翻页状态转换为某种展示方式
type Renderer interface {
	Render(doc models.Document, nav *Navigator, extractions []Extraction) View
}

// HorizontalRenderer 只输出当前页，附带前后翻页是否可用
type HorizontalRenderer struct{}

// Render 实现Renderer接口
func (HorizontalRenderer) Render(doc models.Document, nav *Navigator, extractions []Extraction) View {
	v := baseView(Horizontal, doc, nav, extractions)
	if page, ok := pageAt(doc, nav.Index()); ok {
		v.Current = &page
	}
	return v
}

// VerticalRenderer 输出所有页，并给出需要滚动到的锚点
type VerticalRenderer struct{}

// Render 实现Renderer接口
func (VerticalRenderer) Render(doc models.Document, nav *Navigator, extractions []Extraction) View {
	v := baseView(Vertical, doc, nav, extractions)
	v.Pages = make([]PageView, 0, len(doc.Pages))
	for i := range doc.Pages {
		page, _ := pageAt(doc, i)
		v.Pages = append(v.Pages, page)
	}
	if _, ok := pageAt(doc, nav.Index()); ok {
		v.ScrollTo = anchor(nav.Page())
	}
	return v
}

// RendererFor 返回展示方式对应的渲染器
func RendererFor(layout Layout) Renderer {
	if layout == Vertical {
		return VerticalRenderer{}
	}
	return HorizontalRenderer{}
}

// Render 按指定展示方式渲染
func Render(layout Layout, doc models.Document, nav *Navigator, extractionLimit int) View {
	return RendererFor(layout).Render(doc, nav, nav.Extractions(extractionLimit))
}

func baseView(layout Layout, doc models.Document, nav *Navigator, extractions []Extraction) View {
	return View{
		Layout:      layout,
		DocumentID:  doc.ID,
		Title:       doc.Title,
		Page:        nav.Page(),
		PageCount:   nav.PageCount(),
		Label:       fmt.Sprintf("Page %d of %d", nav.Page(), nav.PageCount()),
		HasPrevious: nav.HasPrevious(),
		HasNext:     nav.HasNext(),
		Extractions: extractions,
	}
}

// pageAt 返回下标对应的页面，文档没有页面时ok为false
func pageAt(doc models.Document, i int) (PageView, bool) {
	if i < 0 || i >= len(doc.Pages) {
		return PageView{}, false
	}
	p := doc.Pages[i]
	number := p.Number
	if number <= 0 {
		number = i + 1
	}
	return PageView{
		Number:        number,
		Content:       p.Content,
		ExtractedData: p.ExtractedData,
		Anchor:        anchor(number),
	}, true
}

func anchor(page int) string {
	return fmt.Sprintf("page-%d", page)
}
