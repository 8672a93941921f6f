// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package product is the inventory screen.
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Stock levels. A product's status is derived from its stock, never set.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// DefaultLowStockThreshold applies when a product is created without one.
const DefaultLowStockThreshold = 10

// Product is a stocked item.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Category          string          `json:"category"`
	Stock             int             `json:"stock"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	VendorID          string          `json:"vendorId"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	Status            string          `json:"status"`
}

// Level derives the stock status.
func (p Product) Level() string {
	switch {
	case p.Stock <= 0:
		return StatusOutOfStock
	case p.Stock <= p.LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

func (p Product) ResourceID() string  { return p.ID }
func (p Product) DisplayCode() string { return p.SKU }

func (p Product) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "sku":
		return p.SKU, true
	case "category":
		return p.Category, true
	case "stock":
		return p.Stock, true
	case "costPrice":
		return p.CostPrice, true
	case "sellingPrice":
		return p.SellingPrice, true
	case "vendorId":
		return p.VendorID, true
	case "lowStockThreshold":
		return p.LowStockThreshold, true
	case "status":
		return p.Level(), true
	}
	return nil, false
}

// Screen describes the inventory list.
func Screen() erp.Screen[Product] {
	return erp.Screen[Product]{
		Config: listctl.Config[Product]{
			Name:         "products",
			Label:        "Product",
			PageSize:     8,
			SearchFields: []string{"name", "sku", "category"},
			Statuses:     []string{StatusInStock, StatusLowStock, StatusOutOfStock},
			Columns: []listctl.Column{
				{Field: "id", Header: "Internal ID"},
				{Field: "name", Header: "Product Name"},
				{Field: "sku", Header: "SKU"},
				{Field: "category", Header: "Category"},
				{Field: "stock", Header: "Current Stock"},
				{Field: "costPrice", Header: "Cost Price"},
				{Field: "sellingPrice", Header: "Selling Price"},
				{Field: "vendorId", Header: "Preferred Vendor ID"},
				{Field: "lowStockThreshold", Header: "Low Stock Threshold"},
			},
			FilenameBase: "inventory_products_list",
		},
		Kind: store.Kind[Product]{
			Name:  "products",
			Label: "Product",
			Seed:  seed(),
			Assign: func(input Product, seq int, _ time.Time) (Product, error) {
				if input.LowStockThreshold == 0 {
					input.LowStockThreshold = DefaultLowStockThreshold
				}
				if err := check(input); err != nil {
					return Product{}, err
				}
				input.ID = store.ID("p", seq)
				input.Status = input.Level()
				return input, nil
			},
			Revise: func(_, after Product, _ time.Time) (Product, error) {
				if err := check(after); err != nil {
					return Product{}, err
				}
				after.Status = after.Level()
				return after, nil
			},
		},
	}
}

func check(p Product) error {
	validator := &validate.Validator{}
	validator.
		Required("name", p.Name).
		Required("sku", p.SKU).
		Required("category", p.Category).
		Custom("stock", p.Stock < 0, "Stock cannot be negative.").
		Custom("costPrice", p.CostPrice.IsNegative(), "Cost price cannot be negative.").
		Custom("sellingPrice", p.SellingPrice.IsNegative(), "Selling price cannot be negative.").
		Custom("lowStockThreshold", p.LowStockThreshold < 0, "Low stock threshold cannot be negative.")
	return validator.Err()
}

// # Stock

// Stock moves on-hand quantities through the products store.
type Stock struct {
	Products listctl.Store[Product]
}

// Adjust adds delta (which may be negative) to a product's stock. The result
// is floored at zero.
func (s Stock) Adjust(ctx context.Context, productID string, delta int) error {
	_, err := s.Products.Update(ctx, productID, func(current Product) (Product, error) {
		current.Stock = max(current.Stock+delta, 0)
		return current, nil
	})
	return err
}

func seed() []Product {
	items := []Product{
		{ID: "p001", Name: "Standard A4 Paper Ream", SKU: "PAP-A4-STD", Category: "Office Supplies", Stock: 150, CostPrice: decimal.RequireFromString("2.5"), SellingPrice: decimal.RequireFromString("4.99"), VendorID: "v001", LowStockThreshold: 20},
		{ID: "p002", Name: "Wireless Optical Mouse", SKU: "MOU-WRL-OPT", Category: "Electronics", Stock: 75, CostPrice: decimal.RequireFromString("8"), SellingPrice: decimal.RequireFromString("15.99"), VendorID: "v002", LowStockThreshold: 10},
		{ID: "p003", Name: "Heavy Duty Stapler", SKU: "STP-HD-001", Category: "Office Supplies", Stock: 0, CostPrice: decimal.RequireFromString("12.5"), SellingPrice: decimal.RequireFromString("24.95"), VendorID: "v001", LowStockThreshold: 5},
		{ID: "p004", Name: "1TB NVMe SSD", SKU: "SSD-NVME-1TB", Category: "Electronics", Stock: 30, CostPrice: decimal.RequireFromString("70"), SellingPrice: decimal.RequireFromString("119.99"), VendorID: "v002", LowStockThreshold: 5},
		{ID: "p005", Name: "Cardboard Box (Medium)", SKU: "BOX-MED-CB", Category: "Packaging", Stock: 500, CostPrice: decimal.RequireFromString("0.5"), SellingPrice: decimal.RequireFromString("1.2"), VendorID: "v005", LowStockThreshold: 100},
	}
	for i := range items {
		items[i].Status = items[i].Level()
	}
	return items
}
