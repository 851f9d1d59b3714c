// Package report renders period reports as printable PDF documents and keeps
// an archive of what was exported.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/stats"

	"github.com/go-pdf/fpdf"
)

const (
	marginX   = 15.0
	lineH     = 4.5
	cellPad   = 1.5
	footerGap = 20.0
)

type rgb struct{ r, g, b int }

var (
	primaryColor   = rgb{59, 130, 246}
	secondaryColor = rgb{139, 148, 158}
	textColor      = rgb{30, 41, 59}
	stripeColor    = rgb{249, 250, 251}
)

var orderColumns = []float64{25, 40, 18, 22, 25, 22, 28}

// Exporter renders reports for one shop.
type Exporter struct {
	appName  string
	loc      *time.Location
	compress bool
}

// NewExporter creates an exporter that prints dates in loc.
func NewExporter(appName string, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{appName: appName, loc: loc, compress: true}
}

// Render writes rep as a PDF to w. A report without orders fails with
// model.ErrNoData and writes nothing.
func (e *Exporter) Render(w io.Writer, rep *stats.Report, generatedAt time.Time) error {
	if rep == nil || len(rep.Orders) == 0 {
		return model.ErrNoData
	}

	doc := &document{
		pdf: fpdf.New("P", "mm", "A4", ""),
	}
	doc.tr = doc.pdf.UnicodeTranslatorFromDescriptor("")
	doc.pdf.SetCompression(e.compress)
	doc.pdf.SetCreationDate(generatedAt)
	doc.pdf.SetTitle(e.appName+" "+rep.Title, true)
	doc.pdf.SetMargins(marginX, 20, marginX)
	doc.pdf.SetAutoPageBreak(false, footerGap)
	doc.pdf.AliasNbPages("")
	doc.pdf.SetFooterFunc(func() { doc.footer(e.appName + " Dry Cleaning - Management Report") })

	doc.pdf.AddPage()
	doc.header(e.appName, rep, generatedAt.In(e.loc), e.loc)
	doc.ordersTable(rep.Orders)

	doc.pdf.AddPage()
	doc.section("SUMMARY")
	doc.table([]string{"Metric", "Value"}, []float64{90, 90}, [][]string{
		{"Total Orders", strconv.Itoa(rep.TotalOrders)},
		{"Total Revenue", FormatCurrency(rep.TotalRevenue)},
		{"Paid Revenue", FormatCurrency(rep.PaidRevenue)},
		{"Unpaid Amount", FormatCurrency(rep.UnpaidRevenue)},
		{"Partial Payments", FormatCurrency(rep.PartialRevenue)},
	})

	doc.section("PAYMENT STATUS")
	doc.table([]string{"Status", "Count (Amount)"}, []float64{90, 90}, [][]string{
		{"Paid Orders", fmt.Sprintf("%d (%s)", rep.PaidOrders, FormatCurrency(rep.PaidRevenue))},
		{"Unpaid Orders", fmt.Sprintf("%d (%s)", rep.UnpaidOrders, FormatCurrency(rep.UnpaidRevenue))},
		{"Partial Payments", fmt.Sprintf("%d (%s)", rep.PartialOrders, FormatCurrency(rep.PartialRevenue))},
	})

	statusRows := make([][]string, 0, len(rep.StatusBreakdown))
	for _, s := range rep.StatusBreakdown {
		statusRows = append(statusRows, []string{string(s.Status), strconv.Itoa(s.Count)})
	}
	doc.section("ORDER STATUS")
	doc.table([]string{"Status", "Count"}, []float64{90, 90}, statusRows)

	methodRows := make([][]string, 0, len(rep.PaymentMethods))
	for _, m := range rep.PaymentMethods {
		methodRows = append(methodRows, []string{string(m.Method), strconv.Itoa(m.Count)})
	}
	doc.section("PAYMENT METHODS")
	doc.table([]string{"Method", "Count"}, []float64{90, 90}, methodRows)

	if len(rep.TopItems) > 0 {
		itemRows := make([][]string, 0, len(rep.TopItems))
		for i, item := range rep.TopItems {
			itemRows = append(itemRows, []string{strconv.Itoa(i + 1), item.Type, strconv.Itoa(item.Quantity)})
		}
		doc.section("TOP ITEMS")
		doc.table([]string{"Rank", "Item Type", "Quantity"}, []float64{30, 90, 60}, itemRows)
	}

	if err := doc.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *document) color(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) header(appName string, rep *stats.Report, generatedAt time.Time, loc *time.Location) {
	pdf := d.pdf
	pageW, _ := pdf.GetPageSize()
	y := 20.0

	pdf.SetFillColor(primaryColor.r, primaryColor.g, primaryColor.b)
	pdf.Circle(marginX, y, 5, "F")

	pdf.SetFont("Helvetica", "B", 24)
	d.color(textColor)
	pdf.Text(23, y+2, d.tr(appName+" Dry Cleaning"))

	pdf.SetFont("Helvetica", "", 12)
	d.color(secondaryColor)
	pdf.Text(23, y+8, d.tr(rep.Title))
	dateRange := FormatDate(rep.DateRange.StartDate.In(loc)) + " - " + FormatDate(rep.DateRange.EndDate.In(loc))
	pdf.Text(23, y+14, dateRange)

	pdf.SetFont("Helvetica", "", 9)
	generated := "Generated: " + FormatDate(generatedAt)
	pdf.Text(pageW-marginX-pdf.GetStringWidth(generated), y, generated)

	pdf.SetXY(marginX, 45)
}

func (d *document) section(title string) {
	pdf := d.pdf
	if pdf.GetY() > 20 {
		pdf.Ln(8)
	}
	d.ensureSpace(30)
	pdf.SetFont("Helvetica", "B", 14)
	d.color(textColor)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (d *document) ordersTable(orders []model.Order) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 16)
	d.color(textColor)
	pdf.CellFormat(0, 8, "DETAILED ORDERS REPORT", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := make([][]string, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		client := o.ClientName + "\n" + o.ClientPhone
		if o.HasEmail() {
			client += "\n" + *o.ClientEmail
		}
		rows = append(rows, []string{
			o.OrderCode,
			client,
			fmt.Sprintf("%d items", o.ItemCount()),
			string(o.Status),
			string(o.PaymentMethod),
			string(o.PaymentStatus),
			FormatCurrency(o.TotalAmount),
		})
	}

	d.table(
		[]string{"Order Code", "Client Information", "Items", "Status", "Payment Method", "Payment Status", "Amount"},
		orderColumns, rows,
	)
}

// table draws a grid with a coloured header row, repeating the header after
// each page break. Cells may span several lines separated by "\n".
func (d *document) table(head []string, widths []float64, rows [][]string) {
	d.headRow(head, widths)
	for i, row := range rows {
		h := rowHeight(row)
		if d.ensureSpace(h) {
			d.headRow(head, widths)
		}
		d.row(row, widths, h, i%2 == 1)
	}
}

func (d *document) headRow(head []string, widths []float64) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(primaryColor.r, primaryColor.g, primaryColor.b)
	pdf.SetTextColor(255, 255, 255)
	d.drawRow(head, widths, rowHeight(head), "FD")
}

func (d *document) row(cells []string, widths []float64, h float64, stripe bool) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 8)
	d.color(textColor)
	style := "D"
	if stripe {
		pdf.SetFillColor(stripeColor.r, stripeColor.g, stripeColor.b)
		style = "FD"
	}
	d.drawRow(cells, widths, h, style)
}

func (d *document) drawRow(cells []string, widths []float64, h float64, style string) {
	pdf := d.pdf
	pdf.SetDrawColor(220, 224, 230)
	x, y := marginX, pdf.GetY()
	for i, cell := range cells {
		w := widths[i]
		pdf.Rect(x, y, w, h, style)
		for j, line := range splitLines(cell) {
			pdf.SetXY(x+cellPad, y+cellPad+float64(j)*lineH)
			pdf.CellFormat(w-2*cellPad, lineH, d.tr(line), "", 0, "L", false, 0, "")
		}
		x += w
	}
	pdf.SetXY(marginX, y+h)
}

// ensureSpace starts a new page when h does not fit above the footer and
// reports whether it did.
func (d *document) ensureSpace(h float64) bool {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h <= pageH-footerGap {
		return false
	}
	d.pdf.AddPage()
	d.pdf.SetXY(marginX, 20)
	return true
}

func (d *document) footer(label string) {
	pdf := d.pdf
	pageW, _ := pdf.GetPageSize()
	pdf.SetY(-15)
	pdf.SetFont("Helvetica", "", 9)
	d.color(secondaryColor)
	pdf.SetX(marginX)
	pdf.CellFormat(0, 10, d.tr(label), "", 0, "L", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(pageW-2*marginX, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
}

func rowHeight(cells []string) float64 {
	lines := 1
	for _, c := range cells {
		lines = max(lines, len(splitLines(c)))
	}
	return float64(lines)*lineH + 2*cellPad
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
