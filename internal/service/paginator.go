package service

import (
	"fmt"
	"strconv"
	"strings"

	"trivia-api/internal/domain"
)

// PageSize is the number of questions per page
const PageSize = 10

// ParsePage reads the page query parameter. An absent value means page 1.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, domain.NewBadRequestError(fmt.Sprintf("page must be a positive integer, got %q", raw)).
			WithContext("page", raw)
	}
	return page, nil
}

// Paginate returns items[(page-1)*size : page*size].
// A page with no items is reported as NOT_FOUND so clients can tell the list has ended.
func Paginate[T any](items []T, page, size int) ([]T, error) {
	if page < 1 || size < 1 {
		return nil, domain.NewBadRequestError("page and page size must be positive")
	}
	// compare page counts first so (page-1)*size cannot overflow
	pages := (len(items) + size - 1) / size
	if page > pages {
		return nil, domain.NewNotFoundError(fmt.Sprintf("page %d is out of range", page)).
			WithContext("page", page).
			WithContext("total", len(items))
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}
