// Package pdf renders the printable artifacts: the organizer report and the
// e-ticket a user downloads after booking.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type TicketData struct {
	BookingID   string
	EventName   string
	EventDate   time.Time
	EventTime   string
	Venue       string
	UserName    string
	SeatsBooked int
	Amount      float64
	Status      string
	QRCodePNG   []byte
}

// Ticket renders a single-page e-ticket with the booking QR code.
func Ticket(d TicketData) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	p.SetFont("Helvetica", "B", 20)
	p.Cell(0, 12, "Eventra E-Ticket")
	p.Ln(16)

	p.SetFont("Helvetica", "B", 14)
	p.Cell(0, 8, d.EventName)
	p.Ln(10)

	p.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Date", d.EventDate.Format("02 Jan 2006")},
		{"Time", d.EventTime},
		{"Venue", d.Venue},
		{"Attendee", d.UserName},
		{"Seats", fmt.Sprintf("%d", d.SeatsBooked)},
		{"Amount", fmt.Sprintf("%.2f", d.Amount)},
		{"Status", d.Status},
		{"Booking ID", d.BookingID},
	}
	for _, row := range rows {
		p.SetFont("Helvetica", "B", 11)
		p.CellFormat(35, 7, row[0], "", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 11)
		p.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}

	if len(d.QRCodePNG) > 0 {
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		p.RegisterImageOptionsReader("ticket-qr", opt, bytes.NewReader(d.QRCodePNG))
		p.ImageOptions("ticket-qr", 150, 30, 45, 45, false, opt, 0, "")
	}

	p.SetY(-30)
	p.SetFont("Helvetica", "I", 9)
	p.Cell(0, 6, "Present the QR code at the venue gate for check-in.")

	var out bytes.Buffer
	if err := p.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type ReportRow struct {
	EventName        string
	TotalTickets     int
	TotalUsers       int
	TotalSeatsBooked int
	TotalRevenue     float64
	RemainingTickets int
}

// OrganizerReport renders the per-event booking summary table.
func OrganizerReport(organizerName string, rows []ReportRow) ([]byte, error) {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	p.SetFont("Helvetica", "B", 16)
	p.Cell(0, 10, "Eventra Organizer Report")
	p.Ln(8)
	p.SetFont("Helvetica", "", 11)
	p.Cell(0, 8, fmt.Sprintf("Organizer: %s    Generated: %s",
		organizerName, time.Now().Format("02 Jan 2006 15:04")))
	p.Ln(12)

	headers := []string{"Event", "Total Tickets", "Registered Users", "Seats Booked", "Revenue", "Remaining"}
	widths := []float64{90, 35, 40, 35, 35, 30}

	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(230, 230, 230)
	for i, h := range headers {
		p.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		p.CellFormat(widths[0], 8, r.EventName, "1", 0, "L", false, 0, "")
		p.CellFormat(widths[1], 8, fmt.Sprintf("%d", r.TotalTickets), "1", 0, "R", false, 0, "")
		p.CellFormat(widths[2], 8, fmt.Sprintf("%d", r.TotalUsers), "1", 0, "R", false, 0, "")
		p.CellFormat(widths[3], 8, fmt.Sprintf("%d", r.TotalSeatsBooked), "1", 0, "R", false, 0, "")
		p.CellFormat(widths[4], 8, fmt.Sprintf("%.2f", r.TotalRevenue), "1", 0, "R", false, 0, "")
		p.CellFormat(widths[5], 8, fmt.Sprintf("%d", r.RemainingTickets), "1", 1, "R", false, 0, "")
	}

	var out bytes.Buffer
	if err := p.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
