package models

// AppPageResponse is one page of a server-paginated list.
type AppPageResponse[T any] struct {
	PageNumber         int   `json:"pageNumber"`
	PageSize           int   `json:"pageSize"`
	TotalFilteredItems int64 `json:"totalFilteredItems"`
	RowSize            int   `json:"rowSize"`
	Data               []T   `json:"data"`
}

// EmptyPage is what list screens fall back to when a fetch fails.
func EmptyPage[T any](q PageQuery) *AppPageResponse[T] {
	return &AppPageResponse[T]{PageNumber: q.Page, PageSize: q.Size, Data: []T{}}
}

// TotalPages rounds up TotalFilteredItems over PageSize.
func (p *AppPageResponse[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalFilteredItems + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasNext reports whether a page after this one exists. Pages are 1-based.
func (p *AppPageResponse[T]) HasNext() bool {
	return p.PageNumber < p.TotalPages()
}

// Consistent reports whether the page holds no more items than RowSize.
func (p *AppPageResponse[T]) Consistent() bool {
	return len(p.Data) <= p.RowSize
}

// PageQuery carries paging and filter parameters for list endpoints.
type PageQuery struct {
	Page    int
	Size    int
	Filters map[string]string
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// Normalize fills in defaults for unset paging values.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < DefaultPage {
		q.Page = DefaultPage
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	return q
}
