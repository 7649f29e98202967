package dashboard

import (
	"strings"

	"recipeadmin/models"
)

// maxPageButtons is the width of the page-number window.
const maxPageButtons = 5

// Stats are the summary counters. Total is the whole dataset; the per-status
// counts only cover the loaded page.
type Stats struct {
	Total               int
	Completed           int
	Failed              int
	InvalidRecipe       int
	InsufficientCredits int
	Processing          int
	Pending             int
	Unknown             int
}

// FilterRuns keeps runs whose phone number, platform, URL or status contains
// term, case-insensitively. An empty term keeps everything.
func FilterRuns(runs []models.ProcessingRun, term string) []models.ProcessingRun {
	out := make([]models.ProcessingRun, 0, len(runs))
	needle := strings.ToLower(term)
	for _, r := range runs {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.PhoneNumber), needle) ||
			strings.Contains(strings.ToLower(r.Platform), needle) ||
			strings.Contains(strings.ToLower(r.URL), needle) ||
			strings.Contains(strings.ToLower(r.Status), needle) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeStats counts the page's runs per canonical status.
func ComputeStats(runs []models.ProcessingRun, pagination models.PaginationInfo) Stats {
	stats := Stats{Total: pagination.Total}
	for _, r := range runs {
		switch r.CanonicalStatus() {
		case models.RunStatusCompleted:
			stats.Completed++
		case models.RunStatusFailed:
			stats.Failed++
		case models.RunStatusInvalidRecipe:
			stats.InvalidRecipe++
		case models.RunStatusInsufficientCredits:
			stats.InsufficientCredits++
		case models.RunStatusProcessing:
			stats.Processing++
		case models.RunStatusPending:
			stats.Pending++
		default:
			stats.Unknown++
		}
	}
	return stats
}

// PageWindow returns up to five page numbers centred on page and clamped to
// [1, totalPages].
func PageWindow(page, totalPages int) []int {
	n := totalPages
	if n > maxPageButtons {
		n = maxPageButtons
	}
	if n <= 0 {
		return []int{}
	}

	start := page - maxPageButtons/2
	if start > totalPages-maxPageButtons+1 {
		start = totalPages - maxPageButtons + 1
	}
	if start < 1 {
		start = 1
	}

	window := make([]int, n)
	for i := range window {
		window[i] = start + i
	}
	return window
}

// ResultRange returns the 1-based first and last row numbers a page covers,
// or 0, 0 when it is past the end.
func ResultRange(p models.PaginationInfo) (from, to int) {
	from = models.PageOffset(p.Page, p.Limit) + 1
	to = p.Page * p.Limit
	if to > p.Total {
		to = p.Total
	}
	if from > to {
		return 0, 0
	}
	return from, to
}

// Filter applies FilterRuns to the held page only.
func (d *Dashboard) Filter(term string) []models.ProcessingRun {
	d.mu.Lock()
	defer d.mu.Unlock()
	return FilterRuns(d.runs, term)
}

// Stats computes the summary counters from the held page.
func (d *Dashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ComputeStats(d.runs, d.pagination)
}

// PageWindow is the page-number window for the held pagination.
func (d *Dashboard) PageWindow() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return PageWindow(d.pagination.Page, d.pagination.TotalPages)
}
