// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package console

import (
	"context"
	"log/slog"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/account"
	"github.com/taibuivan/erpconsole/internal/erp/customer"
	"github.com/taibuivan/erpconsole/internal/erp/employee"
	"github.com/taibuivan/erpconsole/internal/erp/invoice"
	"github.com/taibuivan/erpconsole/internal/erp/journal"
	"github.com/taibuivan/erpconsole/internal/erp/product"
	"github.com/taibuivan/erpconsole/internal/erp/purchaseorder"
	"github.com/taibuivan/erpconsole/internal/erp/salesorder"
	"github.com/taibuivan/erpconsole/internal/erp/vendor"
)

/*
Build opens every entity store and registers the nine ERP screens.

Screens that show names of other records (vendor on a purchase order,
customer on an invoice) read them from the same stores the other screens
write to, so a renamed customer shows up on its next load.
*/
func Build(ctx context.Context, source Source, inboxes Inboxes, logger *slog.Logger) (*Registry, error) {
	vendors, err := Open(ctx, source, vendor.Screen().Kind)
	if err != nil {
		return nil, err
	}
	customers, err := Open(ctx, source, customer.Screen().Kind)
	if err != nil {
		return nil, err
	}
	products, err := Open(ctx, source, product.Screen().Kind)
	if err != nil {
		return nil, err
	}
	employees, err := Open(ctx, source, employee.Screen().Kind)
	if err != nil {
		return nil, err
	}

	purchaseOrders := purchaseorder.Screen(product.Stock{Products: products})
	purchaseOrderStore, err := Open(ctx, source, purchaseOrders.Kind)
	if err != nil {
		return nil, err
	}

	salesOrders := salesorder.Screen()
	salesOrderStore, err := Open(ctx, source, salesOrders.Kind)
	if err != nil {
		return nil, err
	}

	invoices := invoice.Screen()
	invoiceStore, err := Open(ctx, source, invoices.Kind)
	if err != nil {
		return nil, err
	}

	chart := account.Screen()
	accounts, err := Open(ctx, source, chart.Kind)
	if err != nil {
		return nil, err
	}

	entries := journal.Screen()
	entryStore, err := Open(ctx, source, entries.Kind)
	if err != nil {
		return nil, err
	}

	registry := &Registry{}
	registry.Add(
		New(vendor.Screen(), vendors, inboxes, logger),
		New(customer.Screen(), customers, inboxes, logger),
		New(product.Screen(), products, inboxes, logger),
		New(employee.Screen(), employees, inboxes, logger),
		New(purchaseOrders, erp.Backing[purchaseorder.PurchaseOrder](
			erp.Decorate(purchaseOrderStore, purchaseorder.Names(vendors, products))), inboxes, logger),
		New(salesOrders, erp.Backing[salesorder.SalesOrder](
			erp.Decorate(salesOrderStore, salesorder.Names(customers, products))), inboxes, logger),
		New(invoices, erp.Backing[invoice.Invoice](
			erp.Decorate(invoiceStore, invoice.Names(customers))), inboxes, logger),
		New(chart, erp.Backing[account.Account](
			erp.Decorate(accounts, account.Ordered())), inboxes, logger),
		New(entries, erp.Backing[journal.Entry](
			erp.Decorate(entryStore, journal.Ledger(accounts))), inboxes, logger),
	)
	return registry, nil
}
