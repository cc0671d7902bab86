package query

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// SortParams names the requested ordering.
type SortParams struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// FilterParams carries the list controls shared by every collection endpoint:
// filters[field]=value, sort[field]/sort[order], page/limit and free search.
type FilterParams struct {
	Filters map[string]string `json:"filters"`
	Sort    SortParams        `json:"sort"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Search  string            `json:"search"`
}

// PaginationResponse is the list metadata returned next to the rows.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseQueryParams reads the standard list controls from the request.
func ParseQueryParams(c *gin.Context) FilterParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	switch {
	case limit < 1:
		limit = 1
	case limit > maxLimit:
		limit = maxLimit
	}

	filters := make(map[string]string)
	for field, value := range c.QueryMap("filters") {
		if value != "" {
			filters[field] = value
		}
	}

	sort := SortParams{
		Field: c.DefaultQuery("sort[field]", "created_at"),
		Order: c.Query("sort[order]"),
	}
	if sort.Order != "asc" && sort.Order != "desc" {
		sort.Order = "desc"
	}

	return FilterParams{
		Filters: filters,
		Sort:    sort,
		Page:    page,
		Limit:   limit,
		Search:  c.Query("search"),
	}
}

// ApplyFilters adds equality conditions for filters present in the allow
// list, which maps the public field name to its column.
func ApplyFilters(query *gorm.DB, filters map[string]string, allowedFields map[string]string) *gorm.DB {
	for field, value := range filters {
		column, allowed := allowedFields[field]
		if !allowed || value == "" {
			continue
		}
		query = query.Where(column+" = ?", value)
	}
	return query
}

// ApplySearch adds a case-insensitive substring match over the given columns.
func ApplySearch(query *gorm.DB, search string, searchFields []string) *gorm.DB {
	if search == "" || len(searchFields) == 0 {
		return query
	}

	pattern := "%" + search + "%"
	var sb strings.Builder
	args := make([]interface{}, 0, len(searchFields))

	for _, column := range searchFields {
		if sb.Len() > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString(column + " ILIKE ?")
		args = append(args, pattern)
	}

	return query.Where(sb.String(), args...)
}

// ApplySort orders by the requested column when the allow list knows it,
// falling back to newest first.
func ApplySort(query *gorm.DB, sort SortParams, allowedFields map[string]string) *gorm.DB {
	if column, allowed := allowedFields[sort.Field]; allowed {
		return query.Order(column + " " + strings.ToUpper(sort.Order))
	}
	return query.Order("created_at DESC")
}

// ApplyPagination applies offset pagination from page and limit.
func ApplyPagination(query *gorm.DB, page, limit int) *gorm.DB {
	return query.Offset((page - 1) * limit).Limit(limit)
}

// BuildPaginationResponse derives the list metadata for a total row count.
func BuildPaginationResponse(page, limit int, total int64) PaginationResponse {
	totalPages := (total + int64(limit) - 1) / int64(limit)

	return PaginationResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}
