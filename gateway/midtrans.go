package gateway

import (
	"context"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/Vinay0726/Eventra/apperr"
)

type midtransGateway struct {
	snap snap.Client
	core coreapi.Client
}

// NewMidtrans builds the Snap checkout client. useProduction selects the
// provider environment; everything else comes per call.
func NewMidtrans(serverKey string, useProduction bool) PaymentGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}

	g := &midtransGateway{}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func (g *midtransGateway) CreateSession(ctx context.Context, orderID string, amount float64, item CheckoutItem) (Session, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(amount),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  truncate(item.Name, 50),
				Price: int64(item.UnitPrice),
				Qty:   int32(item.Quantity),
			},
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, err := g.snap.CreateTransaction(req)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindUpstreamPayment, "could not create checkout session", err)
	}
	return Session{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (g *midtransGateway) SessionStatus(ctx context.Context, orderID string) (SessionStatus, error) {
	resp, err := g.core.CheckTransaction(orderID)
	if err != nil {
		return SessionStatus{}, apperr.Wrap(apperr.KindUpstreamPayment, "could not check transaction status", err)
	}

	// "settlement" is final; "capture" counts only when fraud screening
	// accepted the charge.
	paid := resp.TransactionStatus == "settlement" ||
		(resp.TransactionStatus == "capture" && resp.FraudStatus == "accept")

	return SessionStatus{Paid: paid, PaymentRef: resp.TransactionID}, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
