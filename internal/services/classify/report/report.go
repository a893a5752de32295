// Package report renders a classification run summary as markdown or HTML
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/services/classify/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders sum as a GFM document
func Markdown(sum domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Classification run %s\n\n", ptime.FormatDay(sum.Date))
	fmt.Fprintf(&b, "Status: **%s**", sum.Status)
	if sum.Model != "" {
		fmt.Fprintf(&b, " with `%s`", sum.Model)
	}
	fmt.Fprintf(&b, " in %s.\n\n", sum.Duration.Round(time.Millisecond))

	b.WriteString("| Metric | Value |\n|---|---:|\n")
	row := func(k string, v any) { fmt.Fprintf(&b, "| %s | %v |\n", k, v) }
	row("Verbatims fetched", sum.Fetched)
	row("Classified", sum.Classified)
	row("Without usable theme", sum.Empty)
	row("Failed", sum.Failed)
	row("Records written", sum.Records)
	row("Insert failures", sum.InsertFailures)

	if len(sum.UnknownThemes) > 0 {
		b.WriteString("\n## Unknown themes\n\n")
		for _, t := range sum.UnknownThemes {
			fmt.Fprintf(&b, "- %s\n", escape(t))
		}
	}
	if sum.RunID != "" {
		fmt.Fprintf(&b, "\nRun id: `%s`\n", sum.RunID)
	}
	return b.String()
}

// HTML renders sum as a standalone page
func HTML(sum domain.RunSummary) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(sum)), &body); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	title := html.EscapeString("reviewpulse " + ptime.FormatDay(sum.Date))
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + title + "</title>" +
		"<style>body{font-family:sans-serif;max-width:720px;margin:2rem auto;}" +
		"table{border-collapse:collapse;}th,td{border:1px solid #ccc;padding:.3rem .6rem;}</style>" +
		"</head><body>" + body.String() + "</body></html>", nil
}

// escape keeps model supplied labels from being read as markdown or raw HTML
func escape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[", "]", "\\]", "<", "&lt;", ">", "&gt;", "|", "\\|")
	return r.Replace(s)
}
