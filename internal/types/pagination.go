package types

import "math"

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// MaxPageNumber keeps Number*Limit within int for any valid limit.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page selects a 1-based page of Limit items.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps number and limit into their valid ranges.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// HasNext reports whether items remain after this page.
func (p Page) HasNext(total int64) bool {
	return int64(p.Number)*int64(p.Limit) < total
}

// Paginated is the list envelope: count, next, previous, results.
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
