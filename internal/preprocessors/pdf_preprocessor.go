// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/observability"
)

// MaxPDFPages caps how many pages are read from one CV.
const MaxPDFPages = 50

// PDFPreprocessor extracts the text layer of a PDF. pdfcpu validates the
// file and reports the page count; ledongthuc/pdf reads the text.
type PDFPreprocessor struct {
	name     string
	config   *model.Configuration
	observer *observability.StandardObserver
}

func NewPDFPreprocessor() *PDFPreprocessor {
	return &PDFPreprocessor{
		name:   "pdf",
		config: model.NewDefaultConfiguration(),
	}
}

func (p *PDFPreprocessor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

func (p *PDFPreprocessor) GetName() string { return p.name }

func (p *PDFPreprocessor) GetSupportedExtensions() []string { return []string{".pdf"} }

func (p *PDFPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, p.GetSupportedExtensions())
}

// Process validates the PDF and extracts the text of each page, top to bottom.
func (p *PDFPreprocessor) Process(filePath string) (doc *Document, err error) {
	finishTiming := p.observer.StartTiming("pdf_preprocessor", "process_file", filePath)
	var finishStep func(bool, string)
	if p.observer != nil && p.observer.DebugObserver != nil {
		finishStep = p.observer.DebugObserver.StartStep("pdf_preprocessor", "process_file", filePath)
	}
	defer func() {
		if finishStep != nil {
			finishStep(err == nil, "")
		}
		if err != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
			return
		}
		finishTiming(true, map[string]interface{}{"pages": doc.Pages})
	}()

	if err := api.ValidateFile(filePath, p.config); err != nil {
		return nil, fmt.Errorf("invalid PDF file: %w", err)
	}

	declared := 0
	if ctx, err := api.ReadContextFile(filePath); err == nil {
		declared = ctx.PageCount
	}

	text, read, err := extractPDFText(filePath)
	if err != nil {
		return nil, err
	}

	pages := declared
	if pages == 0 {
		pages = read
	}
	return &Document{
		Path:      filePath,
		Text:      text,
		Pages:     pages,
		Extractor: p.name,
		Metadata: map[string]interface{}{
			"pages_read": read,
			"truncated":  pages > MaxPDFPages,
		},
	}, nil
}

func extractPDFText(filePath string) (text string, pages int, err error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pages = r.NumPage()
	if pages > MaxPDFPages {
		pages = MaxPDFPages
	}

	var out []string
	for i := 1; i <= pages; i++ {
		t, err := pageText(r, i)
		if err != nil {
			logger.Debug("skipping unreadable PDF page", zap.String("file", filePath), zap.Int("page", i), zap.Error(err))
			continue
		}
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n\n"), pages, nil
}

// pageText reads a single page. The PDF library panics on some malformed
// content streams, so a panic becomes an error for that page only.
func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", num, rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: null page", num)
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return page.GetPlainText(nil)
	}

	var lines []string
	// Rows come back bottom-up; a CV reads top-down.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		if line := rowText(row.Content); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// rowText joins the fragments of a row left to right, inserting a space
// where the horizontal gap exceeds a fifth of the font size.
func rowText(fragments []pdf.Text) string {
	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if sorted[i+1].X-(t.X+t.W) > fontSize*0.2 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
