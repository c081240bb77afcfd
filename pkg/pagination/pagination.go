// Package pagination provides utilities for walking the paginated /tools
// listing: parameter validation, defaults, and a collector for fetching
// every page.
package pagination

import (
	"errors"
	"fmt"

	"github.com/acai10/mcp-http-go/pkg/protocol"
)

const (
	// DefaultLimit is the default page size for tool listings
	DefaultLimit = 50

	// MaxLimit is the maximum allowed page size
	MaxLimit = 200
)

// ErrInvalidLimit is returned when the pagination limit is out of range
var ErrInvalidLimit = errors.New("pagination limit must be greater than 0 and less than or equal to MaxLimit")

// ValidateParams validates pagination parameters. Nil params are valid and
// mean server defaults.
func ValidateParams(params *protocol.ListToolsParams) error {
	if params == nil {
		return nil
	}

	if params.Limit < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, params.Limit)
	}
	if params.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d, max is %d", ErrInvalidLimit, params.Limit, MaxLimit)
	}

	// The cursor is opaque; only the server can fully validate it.
	return nil
}

// ApplyDefaults returns a copy of params with the default limit filled in
// and oversized limits capped
func ApplyDefaults(params *protocol.ListToolsParams) *protocol.ListToolsParams {
	if params == nil {
		return &protocol.ListToolsParams{Limit: DefaultLimit}
	}

	result := &protocol.ListToolsParams{
		Cursor: params.Cursor,
		Limit:  params.Limit,
	}
	if result.Limit <= 0 {
		result.Limit = DefaultLimit
	}
	if result.Limit > MaxLimit {
		result.Limit = MaxLimit
	}
	return result
}

// HasNextPage checks if there are more pages to fetch
func HasNextPage(result *protocol.ListToolsResult) bool {
	if result == nil {
		return false
	}
	return result.HasMore && result.NextCursor != ""
}

// Collector accumulates paging state while fetching all pages of a listing
type Collector struct {
	// NextCursor holds the pagination cursor for the next page
	NextCursor string
	// HasMore indicates if there are more pages to fetch
	HasMore bool
	// TotalItems is the total number of items collected so far
	TotalItems int
}

// NewCollector creates a collector positioned before the first page
func NewCollector() *Collector {
	return &Collector{HasMore: true}
}

// Update advances the collector past one fetched page
func (c *Collector) Update(result *protocol.ListToolsResult) {
	if result == nil {
		c.HasMore = false
		return
	}

	c.NextCursor = result.NextCursor
	c.HasMore = result.HasMore && result.NextCursor != ""
	c.TotalItems += len(result.Tools)
}

// NextParams returns the parameters for the next page
func (c *Collector) NextParams(baseParams *protocol.ListToolsParams) *protocol.ListToolsParams {
	params := ApplyDefaults(baseParams)
	params.Cursor = c.NextCursor
	return params
}
