// Package paging provides the pagination and sorting value types shared by
// the query layer and the HTTP handlers. Page numbers are 1-based.
package paging

// DefaultPageNumber and DefaultPageSize are applied by callers when the
// client omits or sends non-positive paging parameters.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 5
)

// Paging carries the requested page of a result set.
type Paging struct {
	PageNumber int
	PageSize   int
}

// Normalize replaces non-positive values with the defaults. It never errors;
// clamping happens here rather than in the query layer.
func (p Paging) Normalize() Paging {
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Header describes the navigation state of one page of a filtered result set.
// It is serialized into the X-Pagination response header and into the
// response body, so the JSON field names are part of the API contract.
type Header struct {
	PageNumber     int  `json:"pageNumber"`
	PageSize       int  `json:"pageSize"`
	TotalCount     int  `json:"totalCount"`
	TotalPage      int  `json:"totalPage"`
	HasPrevPage    bool `json:"hasPrevPage"`
	HasNextPage    bool `json:"hasNextPage"`
	PrevPageNumber int  `json:"prevPageNumber"`
	NextPageNumber int  `json:"nextPageNumber"`
}

// NewHeader computes the paging header for a page request against a result
// set of totalCount rows. totalCount of zero yields totalPage zero.
func NewHeader(pageNumber, pageSize, totalCount int) Header {
	totalPage := (totalCount + pageSize - 1) / pageSize

	hasPrev := pageNumber > 1
	hasNext := pageNumber < totalPage

	prev := 1
	if hasPrev {
		prev = pageNumber - 1
	}
	next := totalPage
	if hasNext {
		next = pageNumber + 1
	}

	return Header{
		PageNumber:     pageNumber,
		PageSize:       pageSize,
		TotalCount:     totalCount,
		TotalPage:      totalPage,
		HasPrevPage:    hasPrev,
		HasNextPage:    hasNext,
		PrevPageNumber: prev,
		NextPageNumber: next,
	}
}

// Offset returns the number of rows to skip for this page.
func (p Paging) Offset() int {
	return p.PageSize * (p.PageNumber - 1)
}
