// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchaseorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
)

// StockAdjuster adds received goods to inventory. [product.Stock] implements it.
type StockAdjuster interface {
	Adjust(ctx context.Context, productID string, delta int) error
}

// Reception is the request body of the receive action.
type Reception struct {
	Items []ReceivedItem `json:"items"`
}

// ReceivedItem is the quantity delivered for one product this time.
type ReceivedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func receive(stock StockAdjuster) erp.ActionFunc[PurchaseOrder] {
	return func(params json.RawMessage, _ time.Time) (listctl.Action[PurchaseOrder], error) {
		var reception Reception
		if err := erp.DecodeParams(params, &reception); err != nil {
			return listctl.Action[PurchaseOrder]{}, err
		}

		return listctl.Action[PurchaseOrder]{
			Name: "receive",
			Done: "received",
			From: []string{StatusApproved, StatusOrdered, StatusPartiallyReceived},
			Apply: func(current PurchaseOrder) (PurchaseOrder, error) {
				return Receive(current, reception)
			},
			After: func(ctx context.Context, _, _ PurchaseOrder) error {
				return restock(ctx, stock, reception)
			},
		}, nil
	}
}

// Receive books a delivery against an order.
//
// The order becomes Received once every line is fully received, otherwise
// Partially Received. Quantities above what is outstanding are rejected.
func Receive(po PurchaseOrder, reception Reception) (PurchaseOrder, error) {
	lines := make(map[string]int, len(po.Items))
	for i, item := range po.Items {
		lines[item.ProductID] = i
	}

	booked := false
	for _, received := range reception.Items {
		i, ok := lines[received.ProductID]
		if !ok {
			return PurchaseOrder{}, apperr.Unprocessable(
				fmt.Sprintf("Product %s is not on %s.", received.ProductID, po.PONumber))
		}

		line := &po.Items[i]
		switch {
		case received.Quantity < 0:
			return PurchaseOrder{}, apperr.ValidationError("Invalid quantity.")
		case received.Quantity > line.Outstanding():
			return PurchaseOrder{}, apperr.ValidationError(
				fmt.Sprintf("Cannot receive more than %d for %s.", line.Outstanding(), line.ProductName))
		case received.Quantity > 0:
			line.QuantityReceived += received.Quantity
			booked = true
		}
	}
	if !booked {
		return PurchaseOrder{}, apperr.ValidationError("Please enter a quantity for at least one item to receive.")
	}

	po.Status = StatusReceived
	for _, item := range po.Items {
		if item.Outstanding() > 0 {
			po.Status = StatusPartiallyReceived
			break
		}
	}
	return po, nil
}

// restock adds the quantities of a booked reception to product stock.
//
// The amounts come from the reception itself: the action only succeeds when
// the store's copy of the order accepted every line, so each positive
// quantity was booked exactly once whatever this session last saw of the
// order. Every line is attempted; the failures are returned together.
func restock(ctx context.Context, stock StockAdjuster, reception Reception) error {
	var errs []error
	for _, item := range reception.Items {
		if item.Quantity <= 0 {
			continue
		}
		if err := stock.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("restock %s: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}
