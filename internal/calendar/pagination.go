package calendar

const DefaultPageSize = 10

// Page is one page of items.
type Page[T any] struct {
	Items    []T
	Page     int // 1-based
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

// Paginate slices items for the given 1-based page. Non-positive page or
// pageSize fall back to 1 and DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
