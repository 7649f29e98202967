package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"recipeadmin/models"
)

const placeholder = "-"

// Render writes a plain-text dashboard: summary counters, an error banner,
// the (search-filtered) runs table and the pagination footer.
func Render(w io.Writer, snap Snapshot, search string) error {
	stats := ComputeStats(snap.Runs, snap.Pagination)
	rows := FilterRuns(snap.Runs, search)

	var b strings.Builder

	b.WriteString("Recipe Processing Admin\n\n")
	fmt.Fprintf(&b, "Total runs: %d   Completed: %d   Error: %d   Invalid recipe: %d   Insufficient credits: %d\n",
		stats.Total, stats.Completed, stats.Failed, stats.InvalidRecipe, stats.InsufficientCredits)

	if snap.Error != "" {
		fmt.Fprintf(&b, "\nError: %s (retry to try again)\n", snap.Error)
	}

	if snap.State == StateLoading {
		b.WriteString("\nLoading...\n")
	}

	if snap.Pagination.Total > 0 {
		fmt.Fprintf(&b, "\nPage %d of %d, %d total\n", snap.Pagination.Page, snap.Pagination.TotalPages, snap.Pagination.Total)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(rows) == 0 {
		msg := "No runs found.\n"
		if search != "" {
			msg = "No runs match your search.\n"
		}
		_, err := io.WriteString(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPHONE\tPLATFORM\tSTATUS\tCREATED\tRECIPE\tSENDER\tFEEDBACK")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			orPlaceholder(r.PhoneNumber),
			orPlaceholder(r.Platform),
			orPlaceholder(r.Status),
			formatTime(r.CreatedAt),
			formatInt(r.RecipeID),
			orPlaceholder(r.SenderName()),
			formatString(r.Feedback),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if snap.Pagination.TotalPages > 1 {
		from, to := ResultRange(snap.Pagination)
		window := PageWindow(snap.Pagination.Page, snap.Pagination.TotalPages)
		buttons := make([]string, len(window))
		for i, p := range window {
			if p == snap.Pagination.Page {
				buttons[i] = "[" + strconv.Itoa(p) + "]"
			} else {
				buttons[i] = strconv.Itoa(p)
			}
		}
		_, err := fmt.Fprintf(w, "\nShowing %d to %d of %d results   %s\n", from, to, snap.Pagination.Total, strings.Join(buttons, " "))
		return err
	}
	return nil
}

// RenderRun writes the detail view of a single run.
func RenderRun(w io.Writer, r models.ProcessingRun) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run Details - #%d\n", r.ID)
	fields := [][2]string{
		{"Phone Number", orPlaceholder(r.PhoneNumber)},
		{"Platform", orPlaceholder(r.Platform)},
		{"URL", orPlaceholder(r.URL)},
		{"Status", orPlaceholder(r.Status)},
		{"Canonical Status", string(r.CanonicalStatus())},
		{"Content ID", formatString(r.ContentID)},
		{"Recipe ID", formatInt(r.RecipeID)},
		{"Run ID", formatString(r.RunID)},
		{"Created", formatTime(r.CreatedAt)},
		{"Sender", orPlaceholder(r.SenderName())},
		{"Good Recipe", formatBool(r.GoodRecipe)},
		{"Error", formatString(r.ErrorMessage)},
		{"Feedback", formatString(r.Feedback)},
	}
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	return tw.Flush()
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func formatString(s *string) string {
	if s == nil {
		return placeholder
	}
	return orPlaceholder(*s)
}

func formatInt(n *int64) string {
	if n == nil {
		return placeholder
	}
	return strconv.FormatInt(*n, 10)
}

func formatBool(b *bool) string {
	if b == nil {
		return placeholder
	}
	if *b {
		return "yes"
	}
	return "no"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return placeholder
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
