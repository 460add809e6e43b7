package persistence

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination, ordering and field filters to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	}

	return query
}

// applyFilterWithoutPagination applies only the field filters, for
// counting totals against the same predicate as the page query.
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}

// applySearch adds a case-insensitive match on the given column
func applySearch(query *gorm.DB, filter shared.Filter, column string) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}
