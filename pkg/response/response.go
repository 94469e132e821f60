package response

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope shared by every endpoint.
type APIResponse[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the pages count from a total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Success writes a success envelope.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{Success: true, Message: message, Data: data})
}

// Paginated writes a success envelope with pagination metadata.
func Paginated[T any](c *gin.Context, data T, p *Pagination) {
	c.JSON(http.StatusOK, APIResponse[T]{Success: true, Data: data, Pagination: p})
}

// Error writes a failure envelope. err is either a message string or a
// field→message map from validation.
func Error(c *gin.Context, status int, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, APIResponse[any]{Success: false, Error: err})
}

// AbortError writes a failure envelope and aborts the handler chain.
// For use in middleware.
func AbortError(c *gin.Context, status int, err interface{}) {
	c.AbortWithStatusJSON(status, APIResponse[any]{Success: false, Error: err})
}
