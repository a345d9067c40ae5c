package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every endpoint responds with.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Page mirrors the paginator shape list endpoints put under "data".
type Page struct {
	CurrentPage int   `json:"current_page"`
	Data        any   `json:"data"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPage(data any, total int64, page, perPage int) Page {
	lastPage := 1
	if perPage > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
		if lastPage < 1 {
			lastPage = 1
		}
	}
	return Page{
		CurrentPage: page,
		Data:        data,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, message string, errs any) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
