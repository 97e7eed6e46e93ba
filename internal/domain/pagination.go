package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * Limit.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceiling(total / Limit); 0 when Limit is 0.
func (p PaginationParams) TotalPages(total int) int {
	if p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
