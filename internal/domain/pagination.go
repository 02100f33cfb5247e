package domain

// Pagination describes the position of a page within a list result.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate builds page metadata for totalItems matching rows.
// A pageSize <= 0 means the request was not paginated: the whole result is a
// single page whose size equals totalItems. Page numbers below 1 become 1;
// a page beyond TotalPages is kept as requested and simply has no rows.
func Paginate(totalItems, page, pageSize int) Pagination {
	if totalItems < 0 {
		totalItems = 0
	}
	if pageSize <= 0 {
		return Pagination{
			Page:       1,
			PageSize:   totalItems,
			TotalItems: totalItems,
			TotalPages: 1,
		}
	}
	if page < 1 {
		page = 1
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: (totalItems + pageSize - 1) / pageSize,
	}
}
