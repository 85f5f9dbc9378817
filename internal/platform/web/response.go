package web

import (
	"math"

	"github.com/gin-gonic/gin"
)

// Response adalah amplop JSON standar untuk semua endpoint:
// {success: bool, data?, message?}
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

func OKWithMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(200, Response{Success: true, Data: data, Message: message})
}

func OKList(c *gin.Context, data interface{}, p *Pagination) {
	c.JSON(200, Response{Success: true, Data: data, Pagination: p})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(201, Response{Success: true, Data: data, Message: message})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}
