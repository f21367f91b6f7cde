package dto

// PageQuery is bound from ?page=&page_size=.
type PageQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the default page and page size.
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

// PageInfo is embedded in every list response.
type PageInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPageInfo(total int64, q PageQuery) PageInfo {
	pages := 0
	if q.PageSize > 0 {
		pages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	return PageInfo{Total: total, Page: q.Page, PageSize: q.PageSize, TotalPages: pages}
}

// SuccessResponse is returned by operations without a payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
