package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageInfo is the canonical client-side pagination shape. CurrentPage is
// always 1-based regardless of the backend's convention.
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Page holds one page of decoded items plus normalized pagination metadata.
type Page[T any] struct {
	Items    []T
	PageInfo PageInfo
}

// listEnvelope is the paged wrapper variant of a list response. Pointer
// fields distinguish "absent" from zero values.
type listEnvelope struct {
	Items       json.RawMessage `json:"items"`
	Data        json.RawMessage `json:"data"`
	CurrentPage *int            `json:"currentPage"`
	Page        *int            `json:"page"`
	TotalPages  int             `json:"totalPages"`
	PageSize    int             `json:"pageSize"`
	TotalCount  int             `json:"totalCount"`
	HasPrevious *bool           `json:"hasPrevious"`
	HasNext     *bool           `json:"hasNext"`
}

// DecodePage decodes a list response body into a canonical Page. Endpoints
// return either a bare JSON array or a paged envelope; both are handled
// here so callers never inspect the wire shape. zeroBased reports whether
// the endpoint counts pages from 0, in which case the page index is
// shifted to the client's 1-based convention.
func DecodePage[T any](body []byte, requestedPage, pageSize int, zeroBased bool) (Page[T], error) {
	var page Page[T]

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Bare array: the whole result set in one page.
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return page, fmt.Errorf("decoding list body: %w", err)
		}
		n := len(page.Items)
		page.PageInfo = PageInfo{
			CurrentPage: 1,
			TotalPages:  1,
			PageSize:    n,
			TotalCount:  n,
		}
		return page, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return page, fmt.Errorf("decoding list envelope: %w", err)
	}

	rawItems := envelope.Items
	if rawItems == nil {
		rawItems = envelope.Data
	}
	if rawItems != nil {
		if err := json.Unmarshal(rawItems, &page.Items); err != nil {
			return page, fmt.Errorf("decoding envelope items: %w", err)
		}
	}

	info := PageInfo{
		PageSize:   envelope.PageSize,
		TotalCount: envelope.TotalCount,
		TotalPages: envelope.TotalPages,
	}
	if info.PageSize == 0 {
		info.PageSize = pageSize
	}

	switch {
	case envelope.CurrentPage != nil:
		info.CurrentPage = *envelope.CurrentPage
	case envelope.Page != nil:
		info.CurrentPage = *envelope.Page
	default:
		info.CurrentPage = requestedPage
		if zeroBased {
			info.CurrentPage = requestedPage - 1
		}
	}
	if zeroBased {
		info.CurrentPage++
	}
	if info.CurrentPage < 1 {
		info.CurrentPage = 1
	}

	if info.TotalPages == 0 && info.PageSize > 0 {
		info.TotalPages = info.TotalCount / info.PageSize
		if info.TotalCount%info.PageSize > 0 {
			info.TotalPages++
		}
	}

	if envelope.HasPrevious != nil {
		info.HasPrevious = *envelope.HasPrevious
	} else {
		info.HasPrevious = info.CurrentPage > 1
	}
	if envelope.HasNext != nil {
		info.HasNext = *envelope.HasNext
	} else {
		info.HasNext = info.CurrentPage < info.TotalPages
	}

	page.PageInfo = info
	return page, nil
}
