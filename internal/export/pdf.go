package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

var ErrNothingToExport = errors.New("no records selected")

const bodyFont = "body"

// PDFWriter renders records one per page. With a UTF-8 font configured
// the text is embedded as is; otherwise Helvetica is used and characters
// outside cp1252 are lost.
type PDFWriter struct {
	font   []byte
	logger *zap.Logger
}

func NewPDFWriter(fontPath string, logger *zap.Logger) *PDFWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &PDFWriter{logger: logger}
	if fontPath == "" {
		return w
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		logger.Warn("PDF font not loaded, falling back to Helvetica",
			zap.String("path", fontPath),
			zap.Error(err),
		)
		return w
	}
	w.font = font
	return w
}

// Render builds the PDF of records with labels and title in lang.
func (w *PDFWriter) Render(records []models.Record, lang i18n.Lang) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	title := i18n.T(lang, i18n.MsgExportTitle)
	pdf.SetTitle(title, true)
	pdf.SetCreator("meibo", true)

	family := "Helvetica"
	tr := func(s string) string { return s }
	if w.font != nil {
		pdf.AddUTF8FontFromBytes(bodyFont, "", w.font)
		family = bodyFont
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetFont(family, "", BodySize)
	if pdf.Err() {
		return nil, fmt.Errorf("prepare pdf: %w", pdf.Error())
	}

	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, Document{Title: title, Lines: Fields(rec, lang)})
	}
	measure := func(s string) float64 { return pdf.GetStringWidth(tr(s)) }

	page := -1
	for _, p := range Layout(docs, measure) {
		for page < p.Page {
			pdf.AddPage()
			page++
		}
		if p.Title {
			pdf.SetFontSize(TitleSize)
			text := tr(p.Text)
			pdf.Text((PageWidth-pdf.GetStringWidth(text))/2, p.Y, text)
			pdf.SetFontSize(BodySize)
			continue
		}
		pdf.Text(Margin, p.Y, tr(p.Text))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		w.logger.Error("PDF generation failed", zap.Error(err))
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
