// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package salesorder_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/customer"
	"github.com/taibuivan/erpconsole/internal/erp/product"
	"github.com/taibuivan/erpconsole/internal/erp/salesorder"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

var now = time.Date(2026, 8, 11, 15, 0, 0, 0, time.UTC)

func newController(t *testing.T) *listctl.Controller[salesorder.SalesOrder] {
	t.Helper()

	screen := salesorder.Screen()
	backing := erp.Decorate[salesorder.SalesOrder](
		memstore.New(screen.Kind, memstore.WithClock(func() time.Time { return now })),
		salesorder.Names(memstore.New(customer.Screen().Kind), memstore.New(product.Screen().Kind)),
	)
	ctrl := listctl.New(screen.Config, backing, nil, nil)
	require.NoError(t, ctrl.Load(context.Background()))
	return ctrl
}

/*
TestTotal applies line discounts, then the order discount, then tax and shipping.
*/
func TestTotal(t *testing.T) {
	tests := []struct {
		name          string
		order         salesorder.SalesOrder
		subtotal      string
		discountTotal string
		tax           string
		total         string
	}{
		{
			name: "line_discount_default_tax",
			order: salesorder.SalesOrder{
				Items: []salesorder.Item{
					{Quantity: 10, UnitPrice: decimal.RequireFromString("4.99")},
					{Quantity: 2, UnitPrice: decimal.RequireFromString("24.95"), Discount: decimal.RequireFromString("0.99")},
				},
				ShippingCost: decimal.RequireFromString("12.5"),
			},
			subtotal: "97.82", discountTotal: "1.98", tax: "6.85", total: "117.17",
		},
		{
			name: "order_discount_custom_tax",
			order: salesorder.SalesOrder{
				Items:         []salesorder.Item{{Quantity: 4, UnitPrice: decimal.NewFromInt(25)}},
				TaxPercent:    decimal.NewNullDecimal(decimal.NewFromInt(10)),
				OrderDiscount: decimal.NewFromInt(20),
				ShippingCost:  decimal.NewFromInt(5),
			},
			subtotal: "100", discountTotal: "20", tax: "8", total: "93",
		},
		{
			name: "zero_tax_is_kept",
			order: salesorder.SalesOrder{
				Items:      []salesorder.Item{{Quantity: 1, UnitPrice: decimal.NewFromInt(50)}},
				TaxPercent: decimal.NewNullDecimal(decimal.Zero),
			},
			subtotal: "50", discountTotal: "0", tax: "0", total: "50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := salesorder.Total(tt.order)
			assert.Equal(t, tt.subtotal, got.Subtotal.String())
			assert.Equal(t, tt.discountTotal, got.DiscountTotal.String())
			assert.Equal(t, tt.tax, got.Tax.String())
			assert.Equal(t, tt.total, got.TotalAmount.String())
		})
	}
}

/*
TestSalesOrders_Create numbers orders with a three digit yearly suffix.
*/
func TestSalesOrders_Create(t *testing.T) {
	ctrl := newController(t)

	created, err := ctrl.Create(context.Background(), salesorder.SalesOrder{
		CustomerID:       "cust003",
		ExpectedShipDate: "2026-08-20",
		Items:            []salesorder.Item{{ProductID: "p004", Quantity: 1, UnitPrice: decimal.RequireFromString("119.99")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "so003", created.ID)
	assert.Equal(t, "SO-2026-003", created.SONumber)
	assert.Equal(t, "Peter Parker", created.CustomerName)
	assert.Equal(t, "1TB NVMe SSD", created.Items[0].ProductName)
	assert.Equal(t, salesorder.StatusPendingFulfillment, created.Status)

	_, err = ctrl.Create(context.Background(), salesorder.SalesOrder{
		CustomerID: "cust003", OrderDate: "2026-08-20", ExpectedShipDate: "2026-08-01",
		Items: []salesorder.Item{{ProductID: "p004", Quantity: 1}},
	})
	assert.Error(t, err)
}

/*
TestSalesOrders_Remove drops the order and reports with the sales order label.
*/
func TestSalesOrders_Remove(t *testing.T) {
	ctrl := newController(t)

	require.NoError(t, ctrl.Remove(context.Background(), "so002", true))
	_, ok := ctrl.Find("so002")
	assert.False(t, ok)
	assert.Equal(t, 1, ctrl.Snapshot().CollectionSize)
}

/*
TestSalesOrders_Export writes the customer display name and the money columns.
*/
func TestSalesOrders_Export(t *testing.T) {
	ctrl := newController(t)
	ctrl.SetSearch("pawnee")

	var buf bytes.Buffer
	result, err := ctrl.Export(&buf, now)
	require.NoError(t, err)
	assert.Equal(t, "sales_orders_list_2026-08-11.csv", result.Filename)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"SO-2023-002", "Pawnee Parks Department", "2023-11-12", "2023-11-20", "Shipped",
		"60", "0", "4.2", "8", "72.2", "Due on Receipt", "emp003", "Handle with care for Parks Dept event.",
	}, records[1])
}
