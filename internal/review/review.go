// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package review implements the terminal walkthrough in which a person checks
// detected PII before a document is redacted.
package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/preprocessors"
	"cv-sanitizer/internal/redactors"
)

// ErrNotTerminal is returned by NewTerminal when stdin is redirected.
var ErrNotTerminal = errors.New("interactive review needs a terminal on stdin; use --yes to auto-confirm")

// ErrAborted is returned when the input ends in the middle of a review.
var ErrAborted = errors.New("review aborted: input closed")

// highlightPreviewChars bounds the highlighted text shown before the menu.
const highlightPreviewChars = 1000

// Reviewer walks a person through the detections of one document.
type Reviewer struct {
	in      *bufio.Reader
	out     io.Writer
	colors  map[string]*color.Color
	context *detector.ContextExtractor
}

// New returns a reviewer reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, noColor bool) *Reviewer {
	colors := map[string]*color.Color{
		"title":   color.New(color.FgWhite, color.Bold),
		"header":  color.New(color.FgBlue, color.Bold),
		"success": color.New(color.FgGreen),
		"error":   color.New(color.FgRed),
		"match":   color.New(color.FgCyan, color.Bold),
		"high":    color.New(color.FgRed),
		"medium":  color.New(color.FgYellow),
		"low":     color.New(color.FgGreen),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &Reviewer{
		in:      bufio.NewReader(in),
		out:     out,
		colors:  colors,
		context: detector.NewContextExtractor(),
	}
}

// NewTerminal is New over the process's stdin and stdout. It refuses to run
// when stdin is not a terminal.
func NewTerminal(noColor bool) (*Reviewer, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	return New(os.Stdin, os.Stdout, noColor), nil
}

// Review shows the preview, runs the edit menu until the reviewer is done and
// asks for the final confirmation. Edits are applied to session as they are
// made.
func (r *Reviewer) Review(ctx context.Context, doc *preprocessors.Document, session *redactors.Session) (bool, error) {
	r.header(fmt.Sprintf("PII Detection Preview: %s", doc.Filename()))
	r.showPreview(session)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		r.header("Interactive PII Review")
		matches := session.Matches()
		if len(matches) == 0 {
			fmt.Fprintln(r.out, "No PII items to review.")
		}
		r.listMatches(matches)

		fmt.Fprintln(r.out, "\nOptions:")
		fmt.Fprintln(r.out, "  <number> - Keep, remove or edit a PII item")
		fmt.Fprintln(r.out, "  a - Add a manual PII detection")
		fmt.Fprintln(r.out, "  s - Show highlighted text")
		fmt.Fprintln(r.out, "  d - Done with review")
		fmt.Fprintln(r.out, "  q - Quit without redacting")

		choice, err := r.prompt("Choose option", "")
		if err != nil {
			return false, err
		}
		switch choice = strings.ToLower(choice); {
		case choice == "d":
			return r.confirm(session)
		case choice == "q":
			return false, nil
		case choice == "a":
			if err := r.addManual(session); err != nil {
				return false, err
			}
		case choice == "s":
			fmt.Fprintln(r.out, redactors.Highlight(session.Text(), matches))
		default:
			id, convErr := strconv.Atoi(choice)
			if convErr != nil || id < 0 || id >= len(matches) {
				r.fail("Invalid option %q", choice)
				continue
			}
			if err := r.editItem(session, matches, id); err != nil {
				return false, err
			}
		}
	}
}

func (r *Reviewer) showPreview(session *redactors.Session) {
	preview := redactors.Preview(session.Text(), session.Matches())
	summary := redactors.Summary(session.Matches())
	if summary.Total == 0 {
		fmt.Fprintln(r.out, "No PII detected in the document.")
		return
	}

	fmt.Fprintf(r.out, "Detected %d PII items\n", summary.Total)
	for _, c := range detector.AllCategories() {
		if n := summary.ByCategory[c.String()]; n > 0 {
			fmt.Fprintf(r.out, "  %-14s %d\n", c, n)
		}
	}

	text := preview.TextWithHighlights
	if len(text) > highlightPreviewChars {
		text = strings.ToValidUTF8(text[:highlightPreviewChars], "") + "..."
	}
	fmt.Fprintf(r.out, "\n%s\n", text)
}

func (r *Reviewer) listMatches(matches []detector.Match) {
	for i, m := range matches {
		level := redactors.ConfidenceLevel(m.Confidence)
		locale := ""
		if m.Locale != "" {
			locale = " (" + m.Locale + ")"
		}
		fmt.Fprintf(r.out, "%3d: [%s] ", i, m.Category)
		r.colors["match"].Fprint(r.out, m.Text)
		fmt.Fprint(r.out, " (confidence: ")
		r.colors[level].Fprintf(r.out, "%d%%", int(m.Confidence*100))
		fmt.Fprintf(r.out, ")%s\n", locale)
	}
}

func (r *Reviewer) editItem(session *redactors.Session, matches []detector.Match, id int) error {
	m := matches[id]
	info := r.context.ExtractContext(session.Text(), m)

	r.header(fmt.Sprintf("Edit PII Item #%d", id))
	fmt.Fprintf(r.out, "Current: [%s] %s\n", m.Category, m.Text)
	fmt.Fprintf(r.out, "Line %d: %s", info.LineNumber, oneLine(info.BeforeText))
	r.colors["match"].Fprint(r.out, m.Text)
	fmt.Fprintln(r.out, oneLine(info.AfterText))

	fmt.Fprintln(r.out, "\nOptions:")
	fmt.Fprintln(r.out, "  k - Keep this PII item")
	fmt.Fprintln(r.out, "  r - Remove this PII item")
	fmt.Fprintln(r.out, "  e - Edit the PII text")

	choice, err := r.prompt("Choose option", "")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "k":
		r.success("PII item kept")
	case "r":
		if err := session.ApplyEdits([]redactors.Edit{{ID: id, Action: redactors.ActionRemove}}); err != nil {
			r.fail("%v", err)
			return nil
		}
		r.success("PII item removed")
	case "e":
		newText, err := r.prompt("Enter new PII text", m.Text)
		if err != nil {
			return err
		}
		if newText == m.Text {
			return nil
		}
		if err := session.ApplyEdits([]redactors.Edit{{ID: id, Action: redactors.ActionEdit, NewText: newText}}); err != nil {
			r.fail("%v", err)
			return nil
		}
		r.success("PII item updated to: %s", newText)
	default:
		r.fail("Invalid option %q", choice)
	}
	return nil
}

func (r *Reviewer) addManual(session *redactors.Session) error {
	r.header("Add Manual PII Detection")
	categories := detector.AllCategories()
	fmt.Fprintln(r.out, "Available categories:")
	for i, c := range categories {
		fmt.Fprintf(r.out, "  %d: %s\n", i, c)
	}

	answer, err := r.prompt("Choose category", "0")
	if err != nil {
		return err
	}
	category, ok := pickCategory(categories, answer)
	if !ok {
		r.fail("Invalid category %q", answer)
		return nil
	}

	text, err := r.prompt("Enter PII text", "")
	if err != nil {
		return err
	}
	if text == "" {
		r.fail("PII text cannot be empty")
		return nil
	}

	startAnswer, err := r.prompt("Start position (empty for first free occurrence)", "")
	if err != nil {
		return err
	}
	var start int
	if startAnswer != "" {
		if start, err = strconv.Atoi(startAnswer); err != nil {
			r.fail("Invalid position %q", startAnswer)
			return nil
		}
	} else {
		start = FreeOccurrence(session.Text(), text, session.Matches())
		if start < 0 {
			r.fail("%q does not occur outside existing detections", text)
			return nil
		}
	}

	added, err := session.AddManual(redactors.ManualMatch{
		Category: category.String(),
		Text:     text,
		Start:    start,
		End:      start + len(text),
	})
	if err != nil {
		r.fail("%v", err)
		return nil
	}
	r.success("Added PII detection: [%s] %s at %d", added.Category, added.Text, added.Start)
	return nil
}

func (r *Reviewer) confirm(session *redactors.Session) (bool, error) {
	summary := redactors.Summary(session.Matches())
	r.header("Redaction Summary")
	fmt.Fprintf(r.out, "%d items will be replaced (high %d, medium %d, low %d)\n",
		summary.Total, summary.ConfidenceDistribution.High,
		summary.ConfidenceDistribution.Medium, summary.ConfidenceDistribution.Low)

	answer, err := r.prompt("Proceed with saving redacted files? (y/N)", "n")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// FreeOccurrence returns the byte offset of the first occurrence of needle in
// text that overlaps none of matches, or -1.
func FreeOccurrence(text, needle string, matches []detector.Match) int {
	if needle == "" {
		return -1
	}
	from := 0
	for from <= len(text)-len(needle) {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return -1
		}
		start := from + i
		candidate := detector.Match{Start: start, End: start + len(needle)}
		free := true
		for _, m := range matches {
			if m.Overlaps(candidate) {
				free = false
				break
			}
		}
		if free {
			return start
		}
		from = start + 1
	}
	return -1
}

func pickCategory(categories []detector.Category, answer string) (detector.Category, bool) {
	if i, err := strconv.Atoi(answer); err == nil {
		if i < 0 || i >= len(categories) {
			return 0, false
		}
		return categories[i], true
	}
	c, err := detector.ParseCategory(answer)
	return c, err == nil
}

// prompt reads one line, returning def for an empty answer.
func (r *Reviewer) prompt(message, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(r.out, "%s [%s]: ", message, def)
	} else {
		fmt.Fprintf(r.out, "%s: ", message)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (r *Reviewer) header(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(r.out, "\n%s\n", rule)
	r.colors["title"].Fprintf(r.out, "  %s\n", title)
	fmt.Fprintln(r.out, rule)
}

func (r *Reviewer) success(format string, args ...any) {
	r.colors["success"].Fprintf(r.out, "✓ "+format+"\n", args...)
}

func (r *Reviewer) fail(format string, args ...any) {
	r.colors["error"].Fprintf(r.out, "Error: "+format+"\n", args...)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
