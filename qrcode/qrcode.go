package qrcode

import (
	"github.com/skip2/go-qrcode"
)

// TicketPNG encodes a booking id as a QR PNG for gate check-in. The code
// carries only the id; validity is always decided server side.
func TicketPNG(bookingID string, size int) ([]byte, error) {
	qr, err := qrcode.New(bookingID, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.PNG(size)
}
