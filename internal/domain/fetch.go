package domain

import "fmt"

// OrderSearchPageSize is the number of orders requested per page.
const OrderSearchPageSize = 500

// OrderSearch is a single page request against the order source.
type OrderSearch struct {
	LocationID string
	Window     DateWindow
	States     []string
	Limit      int
	Cursor     string
}

// OrderPage is one page of search results. Cursor is empty on the last page.
type OrderPage struct {
	Orders []RawOrder
	Cursor string
	Errors []PlatformError
}

// FetchResult accumulates every page of a search.
type FetchResult struct {
	Orders []RawOrder      `json:"orders"`
	Errors []PlatformError `json:"errors"`
	Pages  int             `json:"pages"`
}

// PlatformError is an error reported inline by Square alongside data.
// It is diagnostic and never aborts a fetch.
type PlatformError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

func (e PlatformError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s/%s (%s): %s", e.Category, e.Code, e.Field, e.Detail)
	}
	return fmt.Sprintf("%s/%s: %s", e.Category, e.Code, e.Detail)
}
