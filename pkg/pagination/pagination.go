// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for page-based lists.
//
// # Overview
//
// It standardizes how a page is cut out of an in-memory view and how the
// resulting metadata, including the numbered page strip shown by the console,
// is delivered in the API response envelope.
package pagination

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// WindowSize is the number of numbered links shown before ellipses kick in.
	WindowSize = 5
)

// Link is one entry of the numbered page strip.
//
// Ellipsis entries carry Number 0.
type Link struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	Pages      []Link `json:"pages,omitempty"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is never below 1, so an empty list still reports page 1 of 1.
func NewMeta(page, limit, total int) Meta {
	totalPages := TotalPages(total, limit)
	page = Clamp(page, totalPages)

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Pages:      Window(page, totalPages),
	}
}

// # Paginator

// TotalPages returns max(1, ceil(total / limit)).
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Clamp forces page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		return totalPages
	}
	if page < 1 {
		return 1
	}
	return page
}

// Slice returns the items of the given 1-based page.
//
// The page is clamped first, so the result is empty only when items is empty.
// The returned slice shares the backing array of items.
func Slice[T any](items []T, page, limit int) []T {
	if limit < 1 {
		limit = DefaultLimit
	}

	page = Clamp(page, TotalPages(len(items), limit))
	start := (page - 1) * limit
	if start >= len(items) {
		return items[:0:0]
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

// Window builds the numbered page strip for the console.
//
// # Layout
//
// Up to [WindowSize] pages are listed as-is. Beyond that the strip is first
// page, a run of pages around current, last page. The run is current and the
// two pages either side of it, shortened to the first (or last) WindowSize-1
// pages while current sits within two of that end:
//
//	current 1 of 10:  1 2 3 4 … 10
//	current 5 of 10:  1 … 3 4 5 6 7 … 10
//	current 10 of 10: 1 … 7 8 9 10
//
// An ellipsis stands in for every skipped gap and page numbers never repeat.
func Window(current, totalPages int) []Link {
	if totalPages < 1 {
		totalPages = 1
	}
	current = Clamp(current, totalPages)

	if totalPages <= WindowSize {
		numbers := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			numbers = append(numbers, i)
		}
		return toLinks(numbers, current)
	}

	half := WindowSize / 2
	startPage := max(2, current-half)
	endPage := min(totalPages-1, current+half)

	if current <= half+1 {
		endPage = min(totalPages-1, WindowSize-1)
	}
	if current >= totalPages-half {
		startPage = max(2, totalPages-WindowSize+2)
	}

	numbers := []int{1}
	if startPage > 2 {
		numbers = append(numbers, 0)
	}
	for i := startPage; i <= endPage; i++ {
		numbers = append(numbers, i)
	}
	if endPage < totalPages-1 {
		numbers = append(numbers, 0)
	}
	numbers = append(numbers, totalPages)

	return toLinks(numbers, current)
}

// toLinks converts page numbers (0 = ellipsis) into links, dropping repeats.
func toLinks(numbers []int, current int) []Link {
	seen := make(map[int]bool, len(numbers))
	links := make([]Link, 0, len(numbers))

	for _, n := range numbers {
		if n == 0 {
			links = append(links, Link{Ellipsis: true})
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		links = append(links, Link{Number: n, Current: n == current})
	}

	return links
}
