package helpers

import (
	"net/http"
	"strconv"

	"partnershipintake/internal/domain"
	"partnershipintake/internal/services"
)

// ParsePagination reads page and limit from the query string. Invalid or missing
// values fall back to page 1 and the default limit; limit is capped at the maximum.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return services.NormalizePagination(domain.PaginationParams{Page: page, Limit: limit})
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from a request page.
func NewPaginationMeta(p *domain.RequestPage) PaginationMeta {
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
