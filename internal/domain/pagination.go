package domain

import (
	"encoding/base64"
	"strconv"
)

// Page size bounds for list operations. Console history lists are short;
// keep pages small.
const (
	DefaultMaxResults = 50
	MaxMaxResults     = 500
)

// PageRequest carries the caller's pagination inputs for list operations.
// PageToken is opaque to callers; it encodes the row offset of the page.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset decodes the page token into a row offset. Empty, malformed, or
// negative tokens all mean the first page.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Limit clamps MaxResults to [1, MaxMaxResults], defaulting when unset.
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// EncodePageToken encodes a row offset as an opaque page token. Offsets at
// or below zero encode as the empty token, meaning the first page.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after the current one, or
// empty when the current page reaches the end of the result set.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
