package pagination

import "strconv"

const DefaultPerPage = 10

// Page is a single slice of an ordered collection. Number is 1-based.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// ParsePage turns a raw "page" query parameter into a page number. Anything
// missing, non-numeric or below 1 means the first page.
func ParsePage(raw string) int {
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 1
	}
	return number
}

// Paginate slices items into pages of perPage and returns the requested one.
// A number past the last page yields the last page, never an error. An empty
// collection yields a single empty page.
func Paginate[T any](items []T, number, perPage int) Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if number < 1 {
		number = 1
	}

	totalItems := len(items)
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * perPage
	end := start + perPage
	if end > totalItems {
		end = totalItems
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: number > 1,
		HasNext:     number < totalPages,
	}
}
