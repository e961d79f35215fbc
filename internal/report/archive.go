package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/glabrego/subtriage/internal/subscription"
)

var ErrNothingArchived = errors.New("no archived channels to export yet")

const (
	DefaultFileName = "substudio_archive_list.pdf"
	documentTitle   = "SubStudio - Archived Channels"

	pageWidth  = 210.0
	marginLeft = 14.0
	rowHeight  = 7.0
)

var columns = []struct {
	title string
	width float64
}{
	{"Channel Name", 52},
	{"Handle", 42},
	{"Subscribers", 24},
	{"Link", 64},
}

// Archived returns the records whose status is archive, in list order.
func Archived(records []subscription.Record) []subscription.Record {
	out := make([]subscription.Record, 0)
	for _, r := range records {
		if r.Status == subscription.StatusArchive {
			out = append(out, r)
		}
	}
	return out
}

// WriteArchivePDF renders the archived channels as a table with a clickable
// link column. Nothing is written when no record is archived.
func WriteArchivePDF(w io.Writer, records []subscription.Record, generated time.Time) error {
	archived := Archived(records)
	if len(archived) == 0 {
		return ErrNothingArchived
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(documentTitle, true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(41, 121, 255)
	pdf.Rect(0, 0, pageWidth, 20, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, 13, documentTitle)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft, 30, "Generated on "+generated.Format("2006-01-02"))
	pdf.Text(marginLeft, 35, fmt.Sprintf("Total Archived: %d", len(archived)))

	pdf.SetXY(marginLeft, 40)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(41, 121, 255)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range archived {
		link := subscription.ProfileURL(r.Handle)
		cells := []string{r.Name, r.Handle, r.SubCount, link}
		pdf.SetX(marginLeft)
		for i, col := range columns {
			text := fitText(pdf, tr, cells[i], col.width-2)
			if i == len(columns)-1 {
				pdf.SetTextColor(0, 0, 255)
				pdf.CellFormat(col.width, rowHeight, text, "1", 0, "L", false, 0, "https://"+link)
				continue
			}
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(col.width, rowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render archive pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write archive pdf: %w", err)
	}
	return nil
}

// fitText truncates s by runes before translating it to the core font
// encoding, so multi-byte characters are never split.
func fitText(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if encoded := tr(s); pdf.GetStringWidth(encoded) <= width {
		return encoded
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + "...")
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
