package common

import (
	"math"

	"github.com/khanghh/unionhub/params"
)

// PageRequest holds the paging parameters of a list request.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPageRequest clamps page and pageSize into valid ranges.
func NewPageRequest(page, pageSize int) PageRequest {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = params.DefaultPageSize
	}
	if pageSize > params.MaxPageSize {
		pageSize = params.MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p PageRequest) Limit() int {
	return p.PageSize
}

type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPageMeta(req PageRequest, total int64) PageMeta {
	totalPages := 0
	if total > 0 && req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}
	return PageMeta{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
