package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// maxPage keeps the offset within int.
const maxPage = math.MaxInt / constants.PageSize

// NewPaginationParams builds 1-indexed params with the fixed page size.
// Pages below the first are clamped to the first page, pages past maxPage
// to maxPage.
func NewPaginationParams(page int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	if page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  constants.PageSize,
		Offset: (page - 1) * constants.PageSize,
	}
}

// GetPaginationParams extracts the page number from the request query.
// A missing or non-numeric page means the first page.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = constants.MinPage
	}
	return NewPaginationParams(page)
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}
