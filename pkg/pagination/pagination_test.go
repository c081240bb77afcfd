package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acai10/mcp-http-go/pkg/protocol"
)

func TestValidateParams(t *testing.T) {
	assert.NoError(t, ValidateParams(nil))
	assert.NoError(t, ValidateParams(&protocol.ListToolsParams{}))
	assert.NoError(t, ValidateParams(&protocol.ListToolsParams{Limit: MaxLimit}))
	assert.NoError(t, ValidateParams(&protocol.ListToolsParams{Cursor: "opaque", Limit: 10}))

	err := ValidateParams(&protocol.ListToolsParams{Limit: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLimit))

	err = ValidateParams(&protocol.ListToolsParams{Limit: MaxLimit + 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLimit))
}

func TestApplyDefaults(t *testing.T) {
	params := ApplyDefaults(nil)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Empty(t, params.Cursor)

	params = ApplyDefaults(&protocol.ListToolsParams{Cursor: "abc"})
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, "abc", params.Cursor)

	params = ApplyDefaults(&protocol.ListToolsParams{Limit: MaxLimit + 100})
	assert.Equal(t, MaxLimit, params.Limit)

	// The input is never mutated
	original := &protocol.ListToolsParams{Limit: 0}
	_ = ApplyDefaults(original)
	assert.Equal(t, 0, original.Limit)
}

func TestHasNextPage(t *testing.T) {
	assert.False(t, HasNextPage(nil))
	assert.False(t, HasNextPage(&protocol.ListToolsResult{HasMore: false}))
	assert.False(t, HasNextPage(&protocol.ListToolsResult{HasMore: true}))
	assert.True(t, HasNextPage(&protocol.ListToolsResult{HasMore: true, NextCursor: "5"}))
}

func TestCollectorWalksPages(t *testing.T) {
	c := NewCollector()
	require.True(t, c.HasMore, "collector starts before the first page")

	c.Update(&protocol.ListToolsResult{
		Tools:      make([]protocol.Tool, 50),
		NextCursor: "50",
		HasMore:    true,
	})
	assert.True(t, c.HasMore)
	assert.Equal(t, 50, c.TotalItems)

	params := c.NextParams(&protocol.ListToolsParams{Limit: 50})
	assert.Equal(t, "50", params.Cursor)
	assert.Equal(t, 50, params.Limit)

	c.Update(&protocol.ListToolsResult{
		Tools:   make([]protocol.Tool, 7),
		HasMore: false,
	})
	assert.False(t, c.HasMore)
	assert.Equal(t, 57, c.TotalItems)
}

func TestCollectorStopsOnNilResult(t *testing.T) {
	c := NewCollector()
	c.Update(nil)
	assert.False(t, c.HasMore)
	assert.Equal(t, 0, c.TotalItems)
}
