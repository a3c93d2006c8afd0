package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/analytics"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

const (
	ContentType = "application/pdf"
	FileName    = "historical_logs.pdf"
)

var Columns = []string{
	"Date",
	"Temperature (°C)",
	"Turbidity (NTU)",
	"pH",
	"Feeding Status",
	"Feeding Times",
	"pH Balancer Status",
	"pH Activity",
	"Food Level Start",
	"Food Level End",
	"pH Level Start",
	"pH Level End",
}

// widths in mm for a landscape A4 page with 10mm margins.
var widths = []float64{26, 22, 22, 14, 22, 40, 24, 22, 21, 21, 21, 21}

const lineHeight = 5.0

// Row renders one daily record as table cells.
func Row(rec domain.DailyRecord) []string {
	feeding := "No automated feeding"
	if len(rec.FeedingSchedules) > 0 {
		feeding = strings.Join(rec.FeedingSchedules, ", ")
	}
	return []string{
		rec.RecordedAt.Format("January 2, 2006"),
		num(rec.Temperature),
		num(rec.Turbidity),
		num(rec.PH),
		status(rec.AutoFeedingEnabled),
		feeding,
		status(rec.AutoPhEnabled),
		analytics.PhActivity(rec),
		num(rec.FoodLevelStart),
		num(rec.FoodLevelEnd),
		num(rec.PhLevelStart),
		num(rec.PhLevelEnd),
	}
}

// DailyLogs renders the records, newest first as given, into a PDF document.
func DailyLogs(records []domain.DailyRecord, generatedAt time.Time) ([]byte, error) {
	pdf := render(records, generatedAt)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func render(records []domain.DailyRecord, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.SetTitle("Daily Logs", true)
	pdf.SetCreationDate(generatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Daily Logs", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(63, 81, 181)
		pdf.SetTextColor(255, 255, 255)
		writeRow(pdf, Columns, tr, true)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, rec := range records {
		cells := Row(rec)
		if pdf.GetY()+rowHeight(pdf, cells, tr) > pageH-bottom {
			pdf.AddPage()
			header()
		}
		writeRow(pdf, cells, tr, false)
	}
	if len(records) == 0 {
		pdf.CellFormat(0, 8, "No history data found.", "", 1, "L", false, 0, "")
	}
	return pdf
}

func rowHeight(pdf *fpdf.Fpdf, cells []string, tr func(string) string) float64 {
	lines := 1
	for i, txt := range cells {
		// SplitText measures runes against the core font width table.
		if n := len(pdf.SplitText(latin1(txt), widths[i]-2)); n > lines {
			lines = n
		}
	}
	return float64(lines) * lineHeight
}

func writeRow(pdf *fpdf.Fpdf, cells []string, tr func(string) string, fill bool) {
	h := rowHeight(pdf, cells, tr)
	left, y := pdf.GetXY()
	x := left
	style := "D"
	if fill {
		style = "FD"
	}
	for i, txt := range cells {
		pdf.Rect(x, y, widths[i], h, style)
		pdf.SetXY(x, y)
		pdf.MultiCell(widths[i], lineHeight, tr(latin1(txt)), "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(left, y+h)
}

// latin1 replaces runes the core fonts cannot draw.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}

func num(v *float64) string {
	if v == nil {
		return analytics.NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func status(v *bool) string {
	switch {
	case v == nil:
		return analytics.NotAvailable
	case *v:
		return "Enabled"
	default:
		return "Disabled"
	}
}
