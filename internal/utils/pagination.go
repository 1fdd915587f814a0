// internal/utils/pagination.go
package utils

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page     int
	PageSize int
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is the list envelope returned by every collection endpoint.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`

	page       int
	pageSize   int
	totalPages int
}

// GetPaginationParams reads page and page_size from the query string.
// Out-of-range values fall back to the first page and the default size.
func GetPaginationParams(c *gin.Context, defaultSize, maxSize int) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if err != nil || size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}

	return PaginationParams{Page: page, PageSize: size}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.PageSize)
}

// NewPage builds the envelope, deriving next/previous links from the
// request URL.
func NewPage(c *gin.Context, results interface{}, total int64, params PaginationParams) Page {
	totalPages := int(math.Ceil(float64(total) / float64(params.PageSize)))

	page := Page{
		Count:      total,
		Results:    results,
		page:       params.Page,
		pageSize:   params.PageSize,
		totalPages: totalPages,
	}

	if params.Page < totalPages {
		next := pageURL(c, params.Page+1)
		page.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(c, params.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path}
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func SetPaginationHeaders(c *gin.Context, page Page) {
	c.Header("X-Total-Count", strconv.FormatInt(page.Count, 10))
	c.Header("X-Page", strconv.Itoa(page.page))
	c.Header("X-Per-Page", strconv.Itoa(page.pageSize))
	c.Header("X-Total-Pages", strconv.Itoa(page.totalPages))
}
