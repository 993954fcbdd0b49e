// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jharmon/matchengine/internal/db"
	"github.com/jharmon/matchengine/internal/matching"
	"github.com/jharmon/matchengine/internal/rules"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBatchSummary outputs the headline numbers for a completed match batch.
func (p *Printer) PrintBatchSummary(summary *matching.BatchSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:          %s\n", summary.JobID))
	sb.WriteString(fmt.Sprintf("Source:       %s\n", summary.Source))
	sb.WriteString(fmt.Sprintf("Elapsed:      %s\n", summary.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Processed:    %d\n", summary.Processed))
	sb.WriteString(fmt.Sprintf("Created:      %d\n", summary.Created))
	sb.WriteString(fmt.Sprintf("Updated:      %d\n", summary.Updated))
	sb.WriteString(fmt.Sprintf("Skipped:      %d\n", summary.Skipped))
	sb.WriteString(fmt.Sprintf("Failed:       %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("Disqualified: %d\n", summary.Disqualified))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Average score: %.2f", summary.AverageScore))

	p.printBox("MATCH BATCH SUMMARY", sb.String())
}

// PrintMatchResults outputs the top ranked results for a job.
func (p *Printer) PrintMatchResults(results []*db.MatchResult) {
	if len(results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCH RESULTS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total results: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		rank := "-"
		if r.Rank != nil {
			rank = fmt.Sprintf("#%d", *r.Rank)
		}
		sb.WriteString(fmt.Sprintf("%-4s %s\n", rank, r.CandidateID))
		if r.Disqualified {
			reason := ""
			if r.DisqualificationReason != nil {
				reason = *r.DisqualificationReason
			}
			sb.WriteString(fmt.Sprintf("     disqualified: %s\n", reason))
		} else {
			sb.WriteString(fmt.Sprintf("     Overall: %.2f  (skill %.0f, exp %.0f, edu %.0f, loc %.0f)\n",
				r.OverallScore, r.SkillScore, r.ExperienceScore, r.EducationScore, r.LocationScore))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(results)-maxItemsToShow))
	}

	p.printBox("TOP MATCH RESULTS", sb.String())
}

// PrintValidation outputs the outcome of validating a rule definition.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(result *rules.ValidationResult) {
	if result == nil {
		return
	}
	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ RULE IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	if result.Valid {
		sb.WriteString("Valid with warnings\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("Found %d errors:\n\n", len(result.Errors)))
		for _, e := range result.Errors {
			if len(e) > 50 {
				e = e[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("✗ %s\n", e))
		}
		if len(result.Warnings) > 0 {
			sb.WriteString("\n")
		}
	}
	for _, w := range result.Warnings {
		if len(w) > 50 {
			w = w[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
	}

	p.printBox("RULE VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}
