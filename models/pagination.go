package models

// RunsPageLimit is the fixed page size. Callers cannot override it.
const RunsPageLimit = 100

// PaginationInfo describes the window a RunsPage covers.
type PaginationInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// RunsPage is the response of the run listing endpoint.
type RunsPage struct {
	Data       []ProcessingRun `json:"data"`
	Pagination PaginationInfo  `json:"pagination"`
}

// PageOffset returns the zero-based row offset of a 1-indexed page.
func PageOffset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages returns ceil(total/limit); zero rows means zero pages.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPaginationInfo builds the pagination block for a page of a dataset of total rows.
func NewPaginationInfo(page, limit, total int) PaginationInfo {
	return PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}
}
