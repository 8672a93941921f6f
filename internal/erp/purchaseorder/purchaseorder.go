// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package purchaseorder is the purchasing screen.

Purchase orders move Pending Approval -> Approved -> Ordered and are then
received, possibly in several deliveries. Receiving goods adds them to product
stock.
*/
package purchaseorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/product"
	"github.com/taibuivan/erpconsole/internal/erp/vendor"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Purchase order statuses.
const (
	StatusPendingApproval   = "Pending Approval"
	StatusApproved          = "Approved"
	StatusOrdered           = "Ordered"
	StatusPartiallyReceived = "Partially Received"
	StatusReceived          = "Received"
	StatusCancelled         = "Cancelled"
)

var statuses = []string{
	StatusPendingApproval, StatusApproved, StatusOrdered,
	StatusPartiallyReceived, StatusReceived, StatusCancelled,
}

var (
	// DefaultTaxRate applies when an order is created without a tax amount.
	DefaultTaxRate = decimal.RequireFromString("0.08")

	// DefaultShipping applies when an order is created without a shipping cost.
	DefaultShipping = decimal.NewFromInt(10)
)

// Item is one order line.
type Item struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	SKU              string          `json:"sku,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	QuantityReceived int             `json:"quantityReceived"`
}

// Outstanding is the quantity still expected.
func (i Item) Outstanding() int {
	return max(i.Quantity-i.QuantityReceived, 0)
}

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID                   string              `json:"id"`
	PONumber             string              `json:"poNumber"`
	VendorID             string              `json:"vendorId"`
	VendorName           string              `json:"vendorName"`
	OrderDate            string              `json:"orderDate"`
	ExpectedDeliveryDate string              `json:"expectedDeliveryDate"`
	Status               string              `json:"status"`
	Items                []Item              `json:"items"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	Tax                  decimal.NullDecimal `json:"tax"`
	ShippingCost         decimal.NullDecimal `json:"shippingCost"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	Notes                string              `json:"notes"`
	CreatedBy            string              `json:"createdBy"`
}

func (po PurchaseOrder) ResourceID() string  { return po.ID }
func (po PurchaseOrder) DisplayCode() string { return po.PONumber }

func (po PurchaseOrder) Field(name string) (any, bool) {
	switch name {
	case "id":
		return po.ID, true
	case "poNumber":
		return po.PONumber, true
	case "vendorId":
		return po.VendorID, true
	case "vendorName":
		return po.VendorName, true
	case "orderDate":
		return po.OrderDate, true
	case "expectedDeliveryDate":
		return po.ExpectedDeliveryDate, true
	case "status":
		return po.Status, true
	case "subtotal":
		return po.Subtotal, true
	case "tax":
		return po.Tax.Decimal, true
	case "shippingCost":
		return po.ShippingCost.Decimal, true
	case "totalAmount":
		return po.TotalAmount, true
	case "notes":
		return po.Notes, true
	case "createdBy":
		return po.CreatedBy, true
	}
	return nil, false
}

// Screen describes the purchase orders list. Received goods are added to
// stock through the given adjuster.
func Screen(stock StockAdjuster) erp.Screen[PurchaseOrder] {
	return erp.Screen[PurchaseOrder]{
		Config: listctl.Config[PurchaseOrder]{
			Name:             "purchase orders",
			Label:            "Purchase Order",
			PageSize:         10,
			SearchFields:     []string{"poNumber", "vendorName", "status"},
			Statuses:         statuses,
			TerminalStatuses: []string{StatusReceived, StatusCancelled},
			Columns: []listctl.Column{
				{Field: "poNumber", Header: "PO Number"},
				{Field: "vendorName", Header: "Vendor"},
				{Field: "orderDate", Header: "Order Date"},
				{Field: "expectedDeliveryDate", Header: "Expected Delivery"},
				{Field: "status", Header: "Status"},
				{Field: "subtotal", Header: "Subtotal"},
				{Field: "tax", Header: "Tax"},
				{Field: "shippingCost", Header: "Shipping"},
				{Field: "totalAmount", Header: "Total Amount"},
				{Field: "notes", Header: "Notes"},
			},
			FilenameBase: "purchase_orders_list",
		},
		Kind: store.Kind[PurchaseOrder]{
			Name:   "purchaseorders",
			Label:  "Purchase Order",
			Seed:   seed(),
			Assign: assign,
			Revise: revise,
		},
		Actions: map[string]erp.ActionFunc[PurchaseOrder]{
			"receive": receive(stock),
		},
	}
}

func assign(input PurchaseOrder, seq int, now time.Time) (PurchaseOrder, error) {
	if input.OrderDate == "" {
		input.OrderDate = store.Today(now)
	}
	if input.Status == "" {
		input.Status = StatusPendingApproval
	}
	if receiving(input.Status) {
		return PurchaseOrder{}, apperr.InvalidTransition("Use the receive action to receive goods.")
	}
	for i := range input.Items {
		input.Items[i].QuantityReceived = 0
	}
	if err := check(input); err != nil {
		return PurchaseOrder{}, err
	}

	input.ID = store.ID("po", seq)
	input.PONumber = store.Code("PO", now.UTC().Year(), seq)
	return total(input), nil
}

func revise(before, after PurchaseOrder, _ time.Time) (PurchaseOrder, error) {
	switch {
	case before.Status == StatusReceived || before.Status == StatusCancelled:
		return PurchaseOrder{}, apperr.Unprocessable(fmt.Sprintf(
			"Cannot edit a %s purchase order.", strings.ToLower(before.Status)))
	case after.Status != before.Status && receiving(after.Status):
		return PurchaseOrder{}, apperr.InvalidTransition("Use the receive action to receive goods.")
	case receiving(before.Status) && after.Status != before.Status && after.Status != StatusCancelled:
		return PurchaseOrder{}, apperr.InvalidTransition("A partially received order can only be cancelled.")
	}
	after.PONumber = before.PONumber

	received := make(map[string]int, len(before.Items))
	for _, item := range before.Items {
		received[item.ProductID] = item.QuantityReceived
	}
	for i := range after.Items {
		after.Items[i].QuantityReceived = received[after.Items[i].ProductID]
	}

	if err := check(after); err != nil {
		return PurchaseOrder{}, err
	}
	return total(after), nil
}

// receiving reports whether status is set by the receive action.
func receiving(status string) bool {
	return status == StatusPartiallyReceived || status == StatusReceived
}

func check(po PurchaseOrder) error {
	validator := &validate.Validator{}
	validator.
		Required("vendorId", po.VendorID).
		Required("orderDate", po.OrderDate).
		Required("expectedDeliveryDate", po.ExpectedDeliveryDate).
		OneOf("status", po.Status, statuses...).
		Custom("items", len(po.Items) == 0, "At least one item is required in the order.").
		Custom("tax", po.Tax.Valid && po.Tax.Decimal.IsNegative(), "Tax cannot be negative.").
		Custom("shippingCost", po.ShippingCost.Valid && po.ShippingCost.Decimal.IsNegative(), "Shipping cost cannot be negative.")

	for _, item := range po.Items {
		validator.
			Required("items.productId", item.ProductID).
			Custom("items.quantity", item.Quantity <= 0, "Quantity must be positive.").
			Custom("items.unitPrice", item.UnitPrice.IsNegative(), "Unit price cannot be negative.")
	}
	return validator.Err()
}

// total recomputes line totals and order totals. Tax and shipping keep their
// explicit values and fall back to the defaults when unset.
func total(po PurchaseOrder) PurchaseOrder {
	subtotal := decimal.Zero
	for i, item := range po.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		po.Items[i].TotalPrice = erp.Money(line)
		subtotal = subtotal.Add(line)
	}

	po.Subtotal = erp.Money(subtotal)
	if !po.Tax.Valid {
		po.Tax = decimal.NewNullDecimal(subtotal.Mul(DefaultTaxRate))
	}
	po.Tax.Decimal = erp.Money(po.Tax.Decimal)
	if !po.ShippingCost.Valid {
		po.ShippingCost = decimal.NewNullDecimal(DefaultShipping)
	}
	po.ShippingCost.Decimal = erp.Money(po.ShippingCost.Decimal)

	po.TotalAmount = erp.Money(po.Subtotal.Add(po.Tax.Decimal).Add(po.ShippingCost.Decimal))
	return po
}

// # Names

// Names resolves vendor and product names on every order leaving the store.
func Names(vendors erp.Lister[vendor.Vendor], products erp.Lister[product.Product]) erp.Fill[PurchaseOrder] {
	return func(ctx context.Context, orders []PurchaseOrder) ([]PurchaseOrder, error) {
		vendorIndex, err := erp.Index(ctx, vendors)
		if err != nil {
			return nil, err
		}
		productIndex, err := erp.Index(ctx, products)
		if err != nil {
			return nil, err
		}

		for i := range orders {
			orders[i].VendorName = "Unknown Vendor"
			if v, ok := vendorIndex[orders[i].VendorID]; ok {
				orders[i].VendorName = v.Name
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

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seed() []PurchaseOrder {
	return []PurchaseOrder{
		{
			ID: "po001", PONumber: "PO-2023-0001", VendorID: "v001", VendorName: "Global Supplies Co.",
			OrderDate: "2023-10-01", ExpectedDeliveryDate: "2023-10-15", Status: StatusOrdered,
			Items: []Item{
				{ProductID: "p001", ProductName: "Standard A4 Paper Ream", Quantity: 50, UnitPrice: money("2.4"), TotalPrice: money("120")},
				{ProductID: "p003", ProductName: "Heavy Duty Stapler", Quantity: 10, UnitPrice: money("12"), TotalPrice: money("120")},
			},
			Subtotal: money("240"), Tax: decimal.NewNullDecimal(money("19.2")), ShippingCost: decimal.NewNullDecimal(money("15")),
			TotalAmount: money("274.2"), Notes: "Urgent order for Q4 supplies.", CreatedBy: "emp004",
		},
		{
			ID: "po002", PONumber: "PO-2023-0002", VendorID: "v002", VendorName: "Tech Parts Inc.",
			OrderDate: "2023-10-05", ExpectedDeliveryDate: "2023-10-25", Status: StatusApproved,
			Items: []Item{
				{ProductID: "p002", ProductName: "Wireless Optical Mouse", Quantity: 25, UnitPrice: money("7.8"), TotalPrice: money("195")},
				{ProductID: "p004", ProductName: "1TB NVMe SSD", Quantity: 5, UnitPrice: money("68"), TotalPrice: money("340")},
			},
			Subtotal: money("535"), Tax: decimal.NewNullDecimal(money("42.8")), ShippingCost: decimal.NewNullDecimal(money("20")),
			TotalAmount: money("597.8"), Notes: "For new developer workstations.", CreatedBy: "emp001",
		},
		{
			ID: "po003", PONumber: "PO-2023-0003", VendorID: "v005", VendorName: "Eco Friendly Packaging",
			OrderDate: "2023-11-01", ExpectedDeliveryDate: "2023-11-10", Status: StatusReceived,
			Items: []Item{
				{ProductID: "p005", ProductName: "Cardboard Box (Medium)", Quantity: 200, UnitPrice: money("0.45"), TotalPrice: money("90"), QuantityReceived: 200},
			},
			Subtotal: money("90"), Tax: decimal.NewNullDecimal(money("7.2")), ShippingCost: decimal.NewNullDecimal(money("10")),
			TotalAmount: money("107.2"), Notes: "Packaging for new product line.", CreatedBy: "emp002",
		},
	}
}
