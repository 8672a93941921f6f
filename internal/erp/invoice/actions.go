// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package invoice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
)

// Payment is the request body of the record-payment action.
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"paymentDate"`
	Method string          `json:"paymentMethod"`
}

func recordPayment(params json.RawMessage, now time.Time) (listctl.Action[Invoice], error) {
	var payment Payment
	if err := erp.DecodeParams(params, &payment); err != nil {
		return listctl.Action[Invoice]{}, err
	}
	if !payment.Amount.IsPositive() {
		return listctl.Action[Invoice]{}, apperr.ValidationError("Valid payment amount required.")
	}
	if payment.Date == "" {
		payment.Date = store.Today(now)
	}
	if payment.Method == "" {
		payment.Method = "N/A"
	}

	return listctl.Action[Invoice]{
		Name: "record-payment",
		Done: "paid",
		Apply: func(current Invoice) (Invoice, error) {
			return RecordPayment(current, payment)
		},
	}, nil
}

// RecordPayment books a payment and settles the status.
func RecordPayment(inv Invoice, payment Payment) (Invoice, error) {
	if inv.Status == StatusPaid || inv.Status == StatusVoid {
		return Invoice{}, apperr.InvalidTransition(fmt.Sprintf(
			"Invoice is already %s and cannot accept further payments.", strings.ToLower(inv.Status)))
	}
	if payment.Amount.GreaterThan(inv.BalanceDue) {
		return Invoice{}, apperr.Unprocessable("Payment exceeds balance due.")
	}

	inv.AmountPaid = erp.Money(inv.AmountPaid.Add(payment.Amount))
	inv.BalanceDue = inv.TotalAmount.Sub(inv.AmountPaid)
	inv.Status = StatusPartiallyPaid
	if !inv.BalanceDue.IsPositive() {
		inv.Status = StatusPaid
	}

	note := fmt.Sprintf("Payment of $%s recorded on %s via %s.", payment.Amount.StringFixed(2), payment.Date, payment.Method)
	inv.InternalNotes = strings.TrimSpace(inv.InternalNotes + "\n" + note)
	return inv, nil
}

func void(json.RawMessage, time.Time) (listctl.Action[Invoice], error) {
	return listctl.Action[Invoice]{
		Name:  "void",
		Done:  "voided",
		Apply: Void,
	}, nil
}

// Void cancels an unpaid invoice and clears its balance.
func Void(inv Invoice) (Invoice, error) {
	switch inv.Status {
	case StatusPaid:
		return Invoice{}, apperr.InvalidTransition("Cannot void a paid invoice. Consider a credit note.")
	case StatusVoid:
		return Invoice{}, apperr.InvalidTransition("Invoice is already void.")
	}

	inv.Status = StatusVoid
	inv.BalanceDue = decimal.Zero
	return inv, nil
}
