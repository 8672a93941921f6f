// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package invoice is the invoicing screen.

Invoices are never hard-deleted once issued: they are paid or voided, and both
Paid and Void are terminal. Only drafts may be removed.
*/
package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/customer"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Invoice statuses.
const (
	StatusDraft         = "Draft"
	StatusSent          = "Sent"
	StatusPartiallyPaid = "Partially Paid"
	StatusPaid          = "Paid"
	StatusOverdue       = "Overdue"
	StatusVoid          = "Void"
)

var statuses = []string{StatusDraft, StatusSent, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusVoid}

// DefaultTaxPercent applies when an invoice carries no tax percentage.
var DefaultTaxPercent = decimal.NewFromInt(7)

// Item is one invoice line.
type Item struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// Invoice is a bill sent to a customer.
type Invoice struct {
	ID              string              `json:"id"`
	InvoiceNumber   string              `json:"invoiceNumber"`
	CustomerID      string              `json:"customerId"`
	CustomerName    string              `json:"customerName"`
	SalesOrderID    string              `json:"salesOrderId"`
	IssueDate       string              `json:"issueDate"`
	DueDate         string              `json:"dueDate"`
	Status          string              `json:"status"`
	Items           []Item              `json:"items"`
	TaxPercent      decimal.NullDecimal `json:"taxPercent"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountApplied decimal.Decimal     `json:"discountApplied"`
	TaxAmount       decimal.Decimal     `json:"taxAmount"`
	ShippingAmount  decimal.Decimal     `json:"shippingAmount"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	AmountPaid      decimal.Decimal     `json:"amountPaid"`
	BalanceDue      decimal.Decimal     `json:"balanceDue"`
	PaymentTerms    string              `json:"paymentTerms"`
	NotesToCustomer string              `json:"notesToCustomer"`
	InternalNotes   string              `json:"internalNotes"`
}

func (inv Invoice) ResourceID() string  { return inv.ID }
func (inv Invoice) DisplayCode() string { return inv.InvoiceNumber }

func (inv Invoice) Field(name string) (any, bool) {
	switch name {
	case "id":
		return inv.ID, true
	case "invoiceNumber":
		return inv.InvoiceNumber, true
	case "customerId":
		return inv.CustomerID, true
	case "customerName":
		return inv.CustomerName, true
	case "salesOrderId":
		return inv.SalesOrderID, true
	case "issueDate":
		return inv.IssueDate, true
	case "dueDate":
		return inv.DueDate, true
	case "status":
		return inv.Status, true
	case "subtotal":
		return inv.Subtotal, true
	case "discountApplied":
		return inv.DiscountApplied, true
	case "taxAmount":
		return inv.TaxAmount, true
	case "shippingAmount":
		return inv.ShippingAmount, true
	case "totalAmount":
		return inv.TotalAmount, true
	case "amountPaid":
		return inv.AmountPaid, true
	case "balanceDue":
		return inv.BalanceDue, true
	case "paymentTerms":
		return inv.PaymentTerms, true
	}
	return nil, false
}

// Screen describes the invoices list.
func Screen() erp.Screen[Invoice] {
	return erp.Screen[Invoice]{
		Config: listctl.Config[Invoice]{
			Name:             "invoices",
			Label:            "Invoice",
			PageSize:         10,
			SearchFields:     []string{"invoiceNumber", "customerName", "salesOrderId"},
			Statuses:         statuses,
			TerminalStatuses: []string{StatusPaid, StatusVoid},
			Columns: []listctl.Column{
				{Field: "invoiceNumber", Header: "Invoice #"},
				{Field: "customerName", Header: "Customer"},
				{Field: "salesOrderId", Header: "SO #"},
				{Field: "issueDate", Header: "Issue Date"},
				{Field: "dueDate", Header: "Due Date"},
				{Field: "status", Header: "Status"},
				{Field: "subtotal", Header: "Subtotal"},
				{Field: "discountApplied", Header: "Discount"},
				{Field: "taxAmount", Header: "Tax"},
				{Field: "shippingAmount", Header: "Shipping"},
				{Field: "totalAmount", Header: "Total Amount"},
				{Field: "amountPaid", Header: "Amount Paid"},
				{Field: "balanceDue", Header: "Balance Due"},
				{Field: "paymentTerms", Header: "Payment Terms"},
			},
			FilenameBase: "invoices_list",
		},
		Kind: store.Kind[Invoice]{
			Name:   "invoices",
			Label:  "Invoice",
			Seed:   seed(),
			Assign: assign,
			Revise: revise,
			Removable: func(current Invoice) error {
				if current.Status != StatusDraft {
					return apperr.Unprocessable("Only draft invoices can be deleted. Void the invoice instead.")
				}
				return nil
			},
		},
		Actions: map[string]erp.ActionFunc[Invoice]{
			"record-payment": recordPayment,
			"void":           void,
		},
	}
}

func assign(input Invoice, seq int, now time.Time) (Invoice, error) {
	if input.IssueDate == "" {
		input.IssueDate = store.Today(now)
	}
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if err := check(input); err != nil {
		return Invoice{}, err
	}

	input.ID = store.ID("inv", seq)
	input.InvoiceNumber = store.Code("INV", now.UTC().Year(), seq)
	return Total(input), nil
}

func revise(before, after Invoice, now time.Time) (Invoice, error) {
	if before.Status == StatusPaid || before.Status == StatusVoid {
		return Invoice{}, apperr.Unprocessable(fmt.Sprintf("Cannot edit a %s invoice.", strings.ToLower(before.Status)))
	}
	if after.Status == StatusVoid {
		return Invoice{}, apperr.InvalidTransition("Use the void action to void an invoice.")
	}
	after.InvoiceNumber = before.InvoiceNumber

	if err := check(after); err != nil {
		return Invoice{}, err
	}

	// Paid and Partially Paid follow the amounts, never the requested status.
	after = Total(after)
	switch {
	case !after.BalanceDue.IsPositive() && after.TotalAmount.IsPositive():
		after.Status = StatusPaid
	case after.AmountPaid.IsPositive():
		after.Status = StatusPartiallyPaid
	case after.Status == StatusPaid || after.Status == StatusPartiallyPaid:
		return Invoice{}, apperr.InvalidTransition("Record a payment to mark an invoice paid.")
	case after.DueDate < store.Today(now):
		after.Status = StatusOverdue
	}
	return after, nil
}

func check(inv Invoice) error {
	validator := &validate.Validator{}
	validator.
		Required("customerId", inv.CustomerID).
		Required("issueDate", inv.IssueDate).
		Required("dueDate", inv.DueDate).
		Date("issueDate", inv.IssueDate).
		Date("dueDate", inv.DueDate).
		Custom("dueDate", inv.DueDate != "" && inv.DueDate < inv.IssueDate, "Due date cannot be before issue date.").
		OneOf("status", inv.Status, statuses...).
		Custom("items", len(inv.Items) == 0, "At least one line item is required.").
		NotNegative("amountPaid", inv.AmountPaid).
		NotNegative("discountApplied", inv.DiscountApplied).
		NotNegative("shippingAmount", inv.ShippingAmount)

	for _, item := range inv.Items {
		validator.
			Required("items.description", item.Description).
			Custom("items.quantity", item.Quantity <= 0, "Quantity must be positive.")
	}
	return validator.Err()
}

// Total recomputes line totals, the grand total and the balance due.
//
// total = (subtotal - discount) * (1 + tax%) + shipping; balance = total - paid.
func Total(inv Invoice) Invoice {
	if !inv.TaxPercent.Valid {
		inv.TaxPercent = decimal.NewNullDecimal(DefaultTaxPercent)
	}

	subtotal := decimal.Zero
	for i, item := range inv.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		inv.Items[i].TotalPrice = erp.Money(line)
		subtotal = subtotal.Add(line)
	}

	taxable := subtotal.Sub(inv.DiscountApplied)
	tax := taxable.Mul(erp.Percent(inv.TaxPercent.Decimal))

	inv.Subtotal = erp.Money(subtotal)
	inv.TaxAmount = erp.Money(tax)
	inv.TotalAmount = erp.Money(taxable.Add(tax).Add(inv.ShippingAmount))
	inv.BalanceDue = inv.TotalAmount.Sub(inv.AmountPaid)
	return inv
}

// Names resolves the customer name on every invoice leaving the store.
func Names(customers erp.Lister[customer.Customer]) erp.Fill[Invoice] {
	return func(ctx context.Context, invoices []Invoice) ([]Invoice, error) {
		index, err := erp.Index(ctx, customers)
		if err != nil {
			return nil, err
		}

		for i := range invoices {
			invoices[i].CustomerName = "Unknown Customer"
			if c, ok := index[invoices[i].CustomerID]; ok {
				invoices[i].CustomerName = c.DisplayName()
			}
		}
		return invoices, nil
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seed() []Invoice {
	return []Invoice{
		{
			ID: "inv001", InvoiceNumber: "INV-2023-0001", CustomerID: "cust001", CustomerName: "Dunder Mifflin Scranton",
			SalesOrderID: "so001", IssueDate: "2023-11-16", DueDate: "2023-12-16", Status: StatusSent,
			Items: []Item{
				{Description: "Standard A4 Paper Ream (from SO-2023-001)", Quantity: 10, UnitPrice: money("4.99"), TotalPrice: money("49.9")},
				{Description: "Heavy Duty Stapler (from SO-2023-001)", Quantity: 2, UnitPrice: money("23.96"), TotalPrice: money("47.92")},
			},
			TaxPercent: decimal.NewNullDecimal(DefaultTaxPercent),
			Subtotal:   money("97.82"), DiscountApplied: money("1.98"), TaxAmount: money("6.85"),
			ShippingAmount: money("12.5"), TotalAmount: money("117.17"), AmountPaid: decimal.Zero, BalanceDue: money("117.17"),
			PaymentTerms:    "Net 30",
			NotesToCustomer: "Thank you for your business! Please remit payment by the due date.",
			InternalNotes:   "SO-2023-001 fulfilled and shipped.",
		},
		{
			ID: "inv002", InvoiceNumber: "INV-2023-0002", CustomerID: "cust002", CustomerName: "Pawnee Parks Department",
			SalesOrderID: "so002", IssueDate: "2023-11-21", DueDate: "2023-11-21", Status: StatusPaid,
			Items: []Item{
				{Description: "Cardboard Box (Medium) (from SO-2023-002)", Quantity: 50, UnitPrice: money("1.2"), TotalPrice: money("60")},
			},
			TaxPercent: decimal.NewNullDecimal(DefaultTaxPercent),
			Subtotal:   money("60"), DiscountApplied: decimal.Zero, TaxAmount: money("4.2"),
			ShippingAmount: money("8"), TotalAmount: money("72.2"), AmountPaid: money("72.2"), BalanceDue: decimal.Zero,
			PaymentTerms:    "Due on Receipt",
			NotesToCustomer: "Payment received with thanks!",
			InternalNotes:   "Paid in full via CC on 2023-11-21.",
		},
	}
}
