package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when the caller does not ask for one.
const DefaultLimit = 50

// EncodeSequenceToken creates a base64 encoded cursor pointing after seq within scope.
// Scope ties the token to one listing so it cannot be replayed against another.
func EncodeSequenceToken(scope string, seq int64) string {
	tokenStr := fmt.Sprintf("%s|%d", scope, seq)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeSequenceToken parses a token made by EncodeSequenceToken and checks its scope.
func DecodeSequenceToken(token, scope string) (int64, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	tokenStr := string(decodedBytes)
	idx := strings.LastIndex(tokenStr, "|")
	if idx < 0 {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	if tokenStr[:idx] != scope {
		return 0, fmt.Errorf("pagination token belongs to another listing")
	}
	seq, err := strconv.ParseInt(tokenStr[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return seq, nil
}

// PageAfter returns up to limit items whose sequence is greater than after. items must
// be in ascending sequence order. more reports whether items remain past the page.
func PageAfter[T any](items []T, seq func(T) int64, after int64, limit int) (page []T, more bool) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := len(items)
	for i, item := range items {
		if seq(item) > after {
			start = i
			break
		}
	}
	end := start + limit
	if end >= len(items) {
		return items[start:], false
	}
	return items[start:end], true
}
