// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchaseorder_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/product"
	"github.com/taibuivan/erpconsole/internal/erp/purchaseorder"
	"github.com/taibuivan/erpconsole/internal/erp/vendor"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctrl     *listctl.Controller[purchaseorder.PurchaseOrder]
	screen   erp.Screen[purchaseorder.PurchaseOrder]
	products *memstore.Store[product.Product]
	vendors  *memstore.Store[vendor.Vendor]
}

func newFixture(t *testing.T, stock purchaseorder.StockAdjuster) fixture {
	t.Helper()

	clock := memstore.WithClock(func() time.Time { return now })
	vendors := memstore.New(vendor.Screen().Kind)
	products := memstore.New(product.Screen().Kind)
	if stock == nil {
		stock = product.Stock{Products: products}
	}

	screen := purchaseorder.Screen(stock)
	backing := erp.Decorate[purchaseorder.PurchaseOrder](
		memstore.New(screen.Kind, clock),
		purchaseorder.Names(vendors, products),
	)

	ctrl := listctl.New(screen.Config, backing, nil, nil)
	require.NoError(t, ctrl.Load(context.Background()))
	return fixture{ctrl: ctrl, screen: screen, products: products, vendors: vendors}
}

func (f fixture) receive(t *testing.T, id, body string) (purchaseorder.PurchaseOrder, error) {
	t.Helper()

	action, err := f.screen.Action("receive", json.RawMessage(body), now)
	require.NoError(t, err)
	return f.ctrl.Transition(context.Background(), id, action)
}

func stockOf(t *testing.T, products *memstore.Store[product.Product], id string) int {
	t.Helper()

	p, err := products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

/*
TestPurchaseOrders_Create numbers the order and applies the default tax and shipping.
*/
func TestPurchaseOrders_Create(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.ctrl.Create(context.Background(), purchaseorder.PurchaseOrder{
		VendorID:             "v002",
		ExpectedDeliveryDate: "2026-03-20",
		Items: []purchaseorder.Item{
			{ProductID: "p002", Quantity: 3, UnitPrice: decimal.RequireFromString("7.5"), QuantityReceived: 9},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "po004", created.ID)
	assert.Equal(t, "PO-2026-0004", created.PONumber)
	assert.Equal(t, "2026-03-02", created.OrderDate)
	assert.Equal(t, purchaseorder.StatusPendingApproval, created.Status)
	assert.Equal(t, "Tech Parts Inc.", created.VendorName)
	assert.Equal(t, "Wireless Optical Mouse", created.Items[0].ProductName)
	assert.Zero(t, created.Items[0].QuantityReceived)

	assert.Equal(t, "22.5", created.Subtotal.String())
	assert.Equal(t, "1.8", created.Tax.Decimal.String())
	assert.Equal(t, "10", created.ShippingCost.Decimal.String())
	assert.Equal(t, "34.3", created.TotalAmount.String())
}

/*
TestPurchaseOrders_Update keeps received quantities and an explicit tax.
*/
func TestPurchaseOrders_Update(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.receive(t, "po001", `{"items":[{"productId":"p001","quantity":20}]}`)
	require.NoError(t, err)

	updated, err := f.ctrl.Update(context.Background(), "po001", func(current purchaseorder.PurchaseOrder) (purchaseorder.PurchaseOrder, error) {
		current.Items = []purchaseorder.Item{
			{ProductID: "p001", Quantity: 60, UnitPrice: decimal.RequireFromString("2.4")},
		}
		return current, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-2023-0001", updated.PONumber)
	assert.Equal(t, 20, updated.Items[0].QuantityReceived)
	assert.Equal(t, "144", updated.Subtotal.String())
	assert.Equal(t, "19.2", updated.Tax.Decimal.String())
	assert.Equal(t, "178.2", updated.TotalAmount.String())
}

/*
TestPurchaseOrders_Receive books partial then full deliveries into stock.
*/
func TestPurchaseOrders_Receive(t *testing.T) {
	f := newFixture(t, nil)

	po, err := f.receive(t, "po001", `{"items":[{"productId":"p001","quantity":50},{"productId":"p003","quantity":4}]}`)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusPartiallyReceived, po.Status)
	assert.Equal(t, 200, stockOf(t, f.products, "p001"))
	assert.Equal(t, 4, stockOf(t, f.products, "p003"))

	po, err = f.receive(t, "po001", `{"items":[{"productId":"p003","quantity":6}]}`)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusReceived, po.Status)
	assert.Equal(t, 10, stockOf(t, f.products, "p003"))

	// Received is terminal.
	_, err = f.receive(t, "po001", `{"items":[{"productId":"p003","quantity":1}]}`)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}

/*
TestPurchaseOrders_ReceiveAcrossSessions restocks exactly what each session booked.
*/
func TestPurchaseOrders_ReceiveAcrossSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	// A second session over the same order store, loaded before any delivery.
	orders := memstore.New(f.screen.Kind, memstore.WithClock(func() time.Time { return now }))
	stock := product.Stock{Products: f.products}
	screen := purchaseorder.Screen(stock)
	first := listctl.New(screen.Config, orders, nil, nil)
	second := listctl.New(screen.Config, orders, nil, nil)
	require.NoError(t, first.Load(ctx))
	require.NoError(t, second.Load(ctx))

	run := func(ctrl *listctl.Controller[purchaseorder.PurchaseOrder], body string) purchaseorder.PurchaseOrder {
		t.Helper()
		action, err := screen.Action("receive", json.RawMessage(body), now)
		require.NoError(t, err)
		po, err := ctrl.Transition(ctx, "po001", action)
		require.NoError(t, err)
		return po
	}

	run(first, `{"items":[{"productId":"p003","quantity":4}]}`)
	po := run(second, `{"items":[{"productId":"p003","quantity":6}]}`)

	assert.Equal(t, purchaseorder.StatusPartiallyReceived, po.Status)
	assert.Equal(t, 10, po.Items[1].QuantityReceived)
	assert.Equal(t, 10, stockOf(t, f.products, "p003"))
}

/*
TestPurchaseOrders_UpdateStatusRejected keeps reception statuses with the receive action.
*/
func TestPurchaseOrders_UpdateStatusRejected(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		status string
		code   string
	}{
		{"mark_received", "po001", purchaseorder.StatusReceived, "INVALID_TRANSITION"},
		{"mark_partially_received", "po002", purchaseorder.StatusPartiallyReceived, "INVALID_TRANSITION"},
		{"reopen_received", "po003", purchaseorder.StatusOrdered, "UNPROCESSABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			before, ok := f.ctrl.Find(tt.id)
			require.True(t, ok)

			_, err := f.ctrl.Update(context.Background(), tt.id, func(current purchaseorder.PurchaseOrder) (purchaseorder.PurchaseOrder, error) {
				current.Status = tt.status
				return current, nil
			})
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.As(err).Code)

			after, ok := f.ctrl.Find(tt.id)
			require.True(t, ok)
			assert.Equal(t, before.Status, after.Status)
		})
	}
}

/*
TestPurchaseOrders_CancelPartiallyReceived allows cancelling but not rewinding a delivery.
*/
func TestPurchaseOrders_CancelPartiallyReceived(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.receive(t, "po001", `{"items":[{"productId":"p001","quantity":20}]}`)
	require.NoError(t, err)

	_, err = f.ctrl.Update(ctx, "po001", func(current purchaseorder.PurchaseOrder) (purchaseorder.PurchaseOrder, error) {
		current.Status = purchaseorder.StatusOrdered
		return current, nil
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)

	po, err := f.ctrl.Update(ctx, "po001", func(current purchaseorder.PurchaseOrder) (purchaseorder.PurchaseOrder, error) {
		current.Status = purchaseorder.StatusCancelled
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusCancelled, po.Status)
}

/*
TestPurchaseOrders_ReceiveRejected covers the checks made before stock moves.
*/
func TestPurchaseOrders_ReceiveRejected(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
		code string
	}{
		{"pending_approval", "po004", `{"items":[{"productId":"p002","quantity":1}]}`, "INVALID_TRANSITION"},
		{"over_outstanding", "po002", `{"items":[{"productId":"p002","quantity":26}]}`, "VALIDATION_ERROR"},
		{"nothing_received", "po002", `{"items":[{"productId":"p002","quantity":0}]}`, "VALIDATION_ERROR"},
		{"unknown_line", "po002", `{"items":[{"productId":"p001","quantity":1}]}`, "UNPROCESSABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.ctrl.Create(context.Background(), purchaseorder.PurchaseOrder{
				VendorID: "v002", ExpectedDeliveryDate: "2026-03-20",
				Items: []purchaseorder.Item{{ProductID: "p002", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
			})
			require.NoError(t, err)

			_, err = f.receive(t, tt.id, tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.As(err).Code)
			assert.Equal(t, 75, stockOf(t, f.products, "p002"))
		})
	}
}

type failingStock struct{}

func (failingStock) Adjust(context.Context, string, int) error { return errors.New("inventory offline") }

/*
TestPurchaseOrders_ReceiveStockFailure keeps the reception when restocking fails.
*/
func TestPurchaseOrders_ReceiveStockFailure(t *testing.T) {
	f := newFixture(t, failingStock{})

	po, err := f.receive(t, "po002", `{"items":[{"productId":"p002","quantity":25},{"productId":"p004","quantity":5}]}`)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusReceived, po.Status)

	stored, ok := f.ctrl.Find("po002")
	require.True(t, ok)
	assert.Equal(t, purchaseorder.StatusReceived, stored.Status)
}

/*
TestPurchaseOrders_UnknownVendor falls back to placeholder names.
*/
func TestPurchaseOrders_UnknownVendor(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.vendors.Remove(context.Background(), "v005"))
	require.NoError(t, f.ctrl.Load(context.Background()))

	po, ok := f.ctrl.Find("po003")
	require.True(t, ok)
	assert.Equal(t, "Unknown Vendor", po.VendorName)

	f.ctrl.SetSearch("unknown vendor")
	assert.Equal(t, 1, f.ctrl.Snapshot().Meta.Total)
}
