package preview

// DefaultExtractionLimit 提取快捷方式列表最多显示的条目数
const DefaultExtractionLimit = 4

// Navigator 预览翻页状态机
// 维护当前页下标，有页面时保证 0 <= index < pageCount，没有页面时 index 固定为0
type Navigator struct {
	index     int
	pageCount int
}

// NewNavigator 创建翻页状态机，从第一页开始
// 负数页数按0页处理
func NewNavigator(pageCount int) *Navigator {
	if pageCount < 0 {
		pageCount = 0
	}
	return &Navigator{pageCount: pageCount}
}

// Next 翻到下一页，已在最后一页时不变
func (n *Navigator) Next() {
	n.index = clamp(n.index+1, 0, n.last())
}

// Previous 翻到上一页，已在第一页时不变
func (n *Navigator) Previous() {
	n.index = clamp(n.index-1, 0, n.last())
}

// GoTo 跳转到指定页码（从1开始），超出范围时落在边界页
func (n *Navigator) GoTo(page int) {
	n.index = clamp(page-1, 0, n.last())
}

// Index 当前页下标（从0开始）
func (n *Navigator) Index() int {
	return n.index
}

// Page 当前页码（从1开始），没有页面时为0
func (n *Navigator) Page() int {
	if n.pageCount == 0 {
		return 0
	}
	return n.index + 1
}

// PageCount 总页数
func (n *Navigator) PageCount() int {
	return n.pageCount
}

// HasNext 是否还有下一页
func (n *Navigator) HasNext() bool {
	return n.index < n.pageCount-1
}

// HasPrevious 是否还有上一页
func (n *Navigator) HasPrevious() bool {
	return n.index > 0
}

// Extraction 提取结果快捷方式，点击后跳转到对应页
type Extraction struct {
	ID   int `json:"id"`
	Page int `json:"page"`
}

// Extractions 生成前 min(limit, pageCount) 页的快捷方式
func (n *Navigator) Extractions(limit int) []Extraction {
	if limit <= 0 {
		limit = DefaultExtractionLimit
	}
	count := n.pageCount
	if count > limit {
		count = limit
	}

	out := make([]Extraction, count)
	for i := range out {
		out[i] = Extraction{ID: i, Page: i + 1}
	}
	return out
}

func (n *Navigator) last() int {
	if n.pageCount == 0 {
		return 0
	}
	return n.pageCount - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
