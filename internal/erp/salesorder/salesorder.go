// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package salesorder is the sales order screen.
package salesorder

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/customer"
	"github.com/taibuivan/erpconsole/internal/erp/product"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Sales order statuses.
const (
	StatusDraft              = "Draft"
	StatusPendingApproval    = "Pending Approval"
	StatusPendingFulfillment = "Pending Fulfillment"
	StatusPartiallyShipped   = "Partially Shipped"
	StatusShipped            = "Shipped"
	StatusInvoiced           = "Invoiced"
	StatusCompleted          = "Completed"
	StatusCancelled          = "Cancelled"
)

var statuses = []string{
	StatusDraft, StatusPendingApproval, StatusPendingFulfillment, StatusPartiallyShipped,
	StatusShipped, StatusInvoiced, StatusCompleted, StatusCancelled,
}

// DefaultTaxPercent applies when an order carries no tax percentage.
var DefaultTaxPercent = decimal.NewFromInt(7)

// Item is one order line. Discount is per unit.
type Item struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// SalesOrder is an order placed by a customer.
type SalesOrder struct {
	ID               string              `json:"id"`
	SONumber         string              `json:"soNumber"`
	CustomerID       string              `json:"customerId"`
	CustomerName     string              `json:"customerName"`
	OrderDate        string              `json:"orderDate"`
	ExpectedShipDate string              `json:"expectedShipDate"`
	Status           string              `json:"status"`
	Items            []Item              `json:"items"`
	TaxPercent       decimal.NullDecimal `json:"taxPercent"`
	OrderDiscount    decimal.Decimal     `json:"orderDiscount"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	DiscountTotal    decimal.Decimal     `json:"discountTotal"`
	Tax              decimal.Decimal     `json:"tax"`
	ShippingCost     decimal.Decimal     `json:"shippingCost"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	ShippingAddress  string              `json:"shippingAddress"`
	BillingAddress   string              `json:"billingAddress"`
	PaymentTerms     string              `json:"paymentTerms"`
	Notes            string              `json:"notes"`
	SalespersonID    string              `json:"salespersonId"`
}

func (so SalesOrder) ResourceID() string  { return so.ID }
func (so SalesOrder) DisplayCode() string { return so.SONumber }

func (so SalesOrder) Field(name string) (any, bool) {
	switch name {
	case "id":
		return so.ID, true
	case "soNumber":
		return so.SONumber, true
	case "customerId":
		return so.CustomerID, true
	case "customerName":
		return so.CustomerName, true
	case "orderDate":
		return so.OrderDate, true
	case "expectedShipDate":
		return so.ExpectedShipDate, true
	case "status":
		return so.Status, true
	case "subtotal":
		return so.Subtotal, true
	case "discountTotal":
		return so.DiscountTotal, true
	case "tax":
		return so.Tax, true
	case "shippingCost":
		return so.ShippingCost, true
	case "totalAmount":
		return so.TotalAmount, true
	case "paymentTerms":
		return so.PaymentTerms, true
	case "salespersonId":
		return so.SalespersonID, true
	case "notes":
		return so.Notes, true
	}
	return nil, false
}

// Screen describes the sales orders list.
func Screen() erp.Screen[SalesOrder] {
	return erp.Screen[SalesOrder]{
		Config: listctl.Config[SalesOrder]{
			Name:             "sales orders",
			Label:            "Sales Order",
			PageSize:         10,
			SearchFields:     []string{"soNumber", "customerName", "status"},
			Statuses:         statuses,
			TerminalStatuses: []string{StatusCompleted, StatusCancelled},
			Columns: []listctl.Column{
				{Field: "soNumber", Header: "SO Number"},
				{Field: "customerName", Header: "Customer Name"},
				{Field: "orderDate", Header: "Order Date"},
				{Field: "expectedShipDate", Header: "Expected Ship Date"},
				{Field: "status", Header: "Status"},
				{Field: "subtotal", Header: "Subtotal"},
				{Field: "discountTotal", Header: "Total Discount"},
				{Field: "tax", Header: "Tax Amount"},
				{Field: "shippingCost", Header: "Shipping Cost"},
				{Field: "totalAmount", Header: "Grand Total"},
				{Field: "paymentTerms", Header: "Payment Terms"},
				{Field: "salespersonId", Header: "Salesperson ID"},
				{Field: "notes", Header: "Notes"},
			},
			FilenameBase: "sales_orders_list",
		},
		Kind: store.Kind[SalesOrder]{
			Name:  "salesorders",
			Label: "Sales Order",
			Seed:  seed(),
			Assign: func(input SalesOrder, seq int, now time.Time) (SalesOrder, error) {
				if input.OrderDate == "" {
					input.OrderDate = store.Today(now)
				}
				if input.Status == "" {
					input.Status = StatusPendingFulfillment
				}
				if err := check(input); err != nil {
					return SalesOrder{}, err
				}
				input.ID = store.ID("so", seq)
				input.SONumber = fmt.Sprintf("SO-%d-%03d", now.UTC().Year(), seq)
				return Total(input), nil
			},
			Revise: func(before, after SalesOrder, _ time.Time) (SalesOrder, error) {
				after.SONumber = before.SONumber
				if err := check(after); err != nil {
					return SalesOrder{}, err
				}
				return Total(after), nil
			},
		},
	}
}

func check(so SalesOrder) error {
	validator := &validate.Validator{}
	validator.
		Required("customerId", so.CustomerID).
		Required("orderDate", so.OrderDate).
		Required("expectedShipDate", so.ExpectedShipDate).
		Custom("expectedShipDate", so.ExpectedShipDate != "" && so.ExpectedShipDate < so.OrderDate, "Ship date cannot be before order date.").
		OneOf("status", so.Status, statuses...).
		Custom("items", len(so.Items) == 0, "At least one item is required.").
		Custom("taxPercent", so.TaxPercent.Valid && so.TaxPercent.Decimal.IsNegative(), "Tax % >= 0.").
		Custom("shippingCost", so.ShippingCost.IsNegative(), "Shipping >= 0.").
		Custom("orderDiscount", so.OrderDiscount.IsNegative(), "Order Discount >= 0.")

	for _, item := range so.Items {
		validator.
			Required("items.productId", item.ProductID).
			Custom("items.quantity", item.Quantity <= 0, "Quantity must be positive.").
			Custom("items.discount", item.Discount.GreaterThan(item.UnitPrice), "Discount cannot exceed the unit price.")
	}
	return validator.Err()
}

// Total recomputes line and order totals.
//
// Line totals are net of the per-unit discount; the order discount comes off
// the subtotal before tax; shipping is added after tax.
func Total(so SalesOrder) SalesOrder {
	if !so.TaxPercent.Valid {
		so.TaxPercent = decimal.NewNullDecimal(DefaultTaxPercent)
	}

	subtotal, lineDiscounts := decimal.Zero, decimal.Zero
	for i, item := range so.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		discount := item.Discount.Mul(qty)
		line := item.UnitPrice.Mul(qty).Sub(discount)

		so.Items[i].TotalPrice = erp.Money(line)
		subtotal = subtotal.Add(line)
		lineDiscounts = lineDiscounts.Add(discount)
	}

	taxable := subtotal.Sub(so.OrderDiscount)
	tax := taxable.Mul(erp.Percent(so.TaxPercent.Decimal))

	so.Subtotal = erp.Money(subtotal)
	so.DiscountTotal = erp.Money(lineDiscounts.Add(so.OrderDiscount))
	so.Tax = erp.Money(tax)
	so.TotalAmount = erp.Money(taxable.Add(tax).Add(so.ShippingCost))
	return so
}

// Names resolves customer and product names on every order leaving the store.
func Names(customers erp.Lister[customer.Customer], products erp.Lister[product.Product]) erp.Fill[SalesOrder] {
	return func(ctx context.Context, orders []SalesOrder) ([]SalesOrder, error) {
		customerIndex, err := erp.Index(ctx, customers)
		if err != nil {
			return nil, err
		}
		productIndex, err := erp.Index(ctx, products)
		if err != nil {
			return nil, err
		}

		for i := range orders {
			orders[i].CustomerName = "Unknown Customer"
			if c, ok := customerIndex[orders[i].CustomerID]; ok {
				orders[i].CustomerName = c.DisplayName()
			}

			for j := range orders[i].Items {
				item := &orders[i].Items[j]
				item.ProductName, item.SKU = "Unknown Product", "N/A"
				if p, ok := productIndex[item.ProductID]; ok {
					item.ProductName, item.SKU = p.Name, p.SKU
				}
			}
		}
		return orders, nil
	}
}

func seed() []SalesOrder {
	orders := []SalesOrder{
		{
			ID: "so001", SONumber: "SO-2023-001", CustomerID: "cust001", CustomerName: "Dunder Mifflin Scranton",
			OrderDate: "2023-11-10", ExpectedShipDate: "2023-11-15", Status: StatusPendingFulfillment,
			Items: []Item{
				{ProductID: "p001", ProductName: "Standard A4 Paper Ream", Quantity: 10, UnitPrice: decimal.RequireFromString("4.99")},
				{ProductID: "p003", ProductName: "Heavy Duty Stapler", Quantity: 2, UnitPrice: decimal.RequireFromString("24.95"), Discount: decimal.RequireFromString("0.99")},
			},
			ShippingCost:    decimal.RequireFromString("12.5"),
			ShippingAddress: "1725 Slough Avenue, Scranton, PA", BillingAddress: "1725 Slough Avenue, Scranton, PA",
			PaymentTerms: "Net 30", Notes: "Customer requested an extra leaflet with the order.", SalespersonID: "emp003",
		},
		{
			ID: "so002", SONumber: "SO-2023-002", CustomerID: "cust002", CustomerName: "Pawnee Parks Department",
			OrderDate: "2023-11-12", ExpectedShipDate: "2023-11-20", Status: StatusShipped,
			Items: []Item{
				{ProductID: "p005", ProductName: "Cardboard Box (Medium)", Quantity: 50, UnitPrice: decimal.RequireFromString("1.2")},
			},
			ShippingCost:    decimal.RequireFromString("8"),
			ShippingAddress: "3500 N Liberty Dr, Pawnee, IN", BillingAddress: "3500 N Liberty Dr, Pawnee, IN",
			PaymentTerms: "Due on Receipt", Notes: "Handle with care for Parks Dept event.", SalespersonID: "emp003",
		},
	}
	for i := range orders {
		orders[i] = Total(orders[i])
	}
	return orders
}
