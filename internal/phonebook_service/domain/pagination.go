package domain

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 2
	MaxPageSize     = 100
)

// ListFilter selects items. A non-nil ID takes precedence over Name.
type ListFilter struct {
	ID   *int64
	Name string
}

// PageRequest describes a window over an ordered result set.
// The window starts at (Page-1)*PageSize + Offset.
type PageRequest struct {
	Page     int
	PageSize int
	Offset   int
}

// Normalize clamps the request: Page >= 1, 1 <= PageSize <= maxPageSize,
// Offset >= 0, and the resulting Skip fits in an int.
func (p PageRequest) Normalize(maxPageSize int) PageRequest {
	if maxPageSize < 1 {
		maxPageSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if maxPage := math.MaxInt/p.PageSize + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	if skip := (p.Page - 1) * p.PageSize; p.Offset > math.MaxInt-skip {
		p.Offset = math.MaxInt - skip
	}
	return p
}

func (p PageRequest) Skip() int {
	return (p.Page-1)*p.PageSize + p.Offset
}

// Page is one window of a listing plus the total count of matching rows.
type Page struct {
	Items       []*PhonebookItem `json:"items"`
	CurrentPage int              `json:"page"`
	TotalItems  int64            `json:"total"`
}
