package apiresponse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope for successful API responses.
type Response struct {
	Data       interface{} `json:"data"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Timestamp  string      `json:"timestamp"`
}

// Pagination describes the position of a page within a collection.
type Pagination struct {
	Current    int   `json:"current"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page is a paginated collection body for list endpoints.
type Page struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// FeedPagination extends Pagination with cursor-style hints used by feeds.
type FeedPagination struct {
	Pagination
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// Feed is a paginated collection body for feed-style endpoints.
type Feed struct {
	Items      interface{}    `json:"items"`
	Pagination FeedPagination `json:"pagination"`
}

// NewPagination computes the derived pagination fields for a page.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		Current:    page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// NewFeedPagination computes pagination with hasNext/hasPrev hints.
func NewFeedPagination(page, pageSize int, total int64) FeedPagination {
	p := NewPagination(page, pageSize, total)
	return FeedPagination{
		Pagination: p,
		HasNext:    page < p.TotalPages,
		HasPrev:    page > 1,
	}
}

// PageQuery reads page/pageSize query parameters, clamping to sane bounds.
func PageQuery(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// OK writes a 200 response with the standard success envelope.
func OK(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

// Created writes a 201 response with the standard success envelope.
func Created(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, Response{
		Data:       data,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
