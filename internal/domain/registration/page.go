package registration

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

const (
	// DefaultPageSize is used when a request omits maximumPageSize.
	DefaultPageSize = 1000
	maxPageSize     = 1000
	tokenPrefix     = "page:"
)

// Reverse reverses items in place.
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// Paginate returns the page of items addressed by token along with the token for
// the following page, which is empty on the last page.
func Paginate[T any](items []T, pageSize int, token string) ([]T, string, error) {
	if pageSize < 0 || pageSize > maxPageSize {
		return nil, "", fmt.Errorf("%w: maximumPageSize must be between 0 and %d", ErrInvalidInput, maxPageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	offset, err := decodeToken(token)
	if err != nil {
		return nil, "", err
	}
	if offset > len(items) {
		offset = len(items)
	}

	end := offset + pageSize
	if end >= len(items) {
		return items[offset:], "", nil
	}
	return items[offset:end], encodeToken(end), nil
}

func encodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.Itoa(offset)))
}

func decodeToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) <= len(tokenPrefix) || string(raw[:len(tokenPrefix)]) != tokenPrefix {
		return 0, fmt.Errorf("%w: nextPageToken is not valid", ErrInvalidInput)
	}
	offset, err := strconv.Atoi(string(raw[len(tokenPrefix):]))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: nextPageToken is not valid", ErrInvalidInput)
	}
	return offset, nil
}
