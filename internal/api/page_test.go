package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDecodePage_BareArray(t *testing.T) {
	body := []byte(`[{"id":"1","name":"a"},{"id":"2","name":"b"}]`)

	page, err := DecodePage[testItem](body, 1, 10, false)
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.PageInfo.CurrentPage)
	assert.Equal(t, 1, page.PageInfo.TotalPages)
	assert.Equal(t, 2, page.PageInfo.TotalCount)
	assert.False(t, page.PageInfo.HasPrevious)
	assert.False(t, page.PageInfo.HasNext)
}

func TestDecodePage_ZeroBasedEnvelope(t *testing.T) {
	// Backend page index 0, size 10, 25 items total.
	body := []byte(`{
		"items": [{"id":"1","name":"a"}],
		"currentPage": 0,
		"pageSize": 10,
		"totalCount": 25
	}`)

	page, err := DecodePage[testItem](body, 1, 10, true)
	require.NoError(t, err)

	assert.Equal(t, 1, page.PageInfo.CurrentPage)
	assert.Equal(t, 3, page.PageInfo.TotalPages)
	assert.False(t, page.PageInfo.HasPrevious)
	assert.True(t, page.PageInfo.HasNext)
}

func TestDecodePage_OneBasedEnvelope(t *testing.T) {
	body := []byte(`{
		"items": [{"id":"3","name":"c"}],
		"page": 2,
		"pageSize": 10,
		"totalPages": 3,
		"totalCount": 25,
		"hasPrevious": true,
		"hasNext": true
	}`)

	page, err := DecodePage[testItem](body, 2, 10, false)
	require.NoError(t, err)

	assert.Equal(t, 2, page.PageInfo.CurrentPage)
	assert.Equal(t, 3, page.PageInfo.TotalPages)
	assert.True(t, page.PageInfo.HasPrevious)
	assert.True(t, page.PageInfo.HasNext)
}

func TestDecodePage_DataField(t *testing.T) {
	body := []byte(`{"data": [{"id":"1","name":"a"}], "totalCount": 1, "pageSize": 10}`)

	page, err := DecodePage[testItem](body, 1, 10, false)
	require.NoError(t, err)

	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.PageInfo.CurrentPage)
	assert.Equal(t, 1, page.PageInfo.TotalPages)
}

func TestDecodePage_LastPage(t *testing.T) {
	body := []byte(`{"items": [], "currentPage": 2, "pageSize": 10, "totalCount": 25}`)

	page, err := DecodePage[testItem](body, 3, 10, true)
	require.NoError(t, err)

	assert.Equal(t, 3, page.PageInfo.CurrentPage)
	assert.Equal(t, 3, page.PageInfo.TotalPages)
	assert.True(t, page.PageInfo.HasPrevious)
	assert.False(t, page.PageInfo.HasNext)
}

func TestDecodePage_InvalidBody(t *testing.T) {
	_, err := DecodePage[testItem]([]byte(`not json`), 1, 10, false)
	assert.Error(t, err)
}
