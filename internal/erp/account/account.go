// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account is the chart of accounts screen.

Accounts are keyed by their official account number (accountId, "1010") and
form a tree through parentAccountId. An account number is unique, and an
account that still has children cannot be deleted.
*/
package account

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Account statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var statuses = []string{StatusActive, StatusInactive}

// Account types.
const (
	TypeAsset           = "Asset"
	TypeLiability       = "Liability"
	TypeEquity          = "Equity"
	TypeRevenue         = "Revenue"
	TypeExpense         = "Expense"
	TypeCostOfGoodsSold = "Cost of Goods Sold"
)

// Normal balances.
const (
	BalanceDebit  = "Debit"
	BalanceCredit = "Credit"
)

// Account numbers are 4 to 10 digits.
const (
	accountNumberMinimum = 4
	accountNumberMaximum = 10
)

var types = []string{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense, TypeCostOfGoodsSold}

// ErrHasChildren is returned when deleting an account other accounts roll up into.
var ErrHasChildren = apperr.Conflict("Cannot delete account: It is a parent to other accounts. Reassign children first.")

// Account is one ledger account.
type Account struct {
	ID              string `json:"id"`
	AccountID       string `json:"accountId"`
	AccountName     string `json:"accountName"`
	AccountType     string `json:"accountType"`
	ParentAccountID string `json:"parentAccountId"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	IsActive        bool   `json:"isActive"`
	NormalBalance   string `json:"normalBalance"`
	IsCategory      bool   `json:"isCategory"`
}

func (a Account) ResourceID() string  { return a.ID }
func (a Account) DisplayCode() string { return a.AccountID }

func (a Account) Field(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "accountId":
		return a.AccountID, true
	case "accountName":
		return a.AccountName, true
	case "accountType":
		return a.AccountType, true
	case "parentAccountId":
		return a.ParentAccountID, true
	case "description":
		return a.Description, true
	case "status":
		return a.Status, true
	case "normalBalance":
		return a.NormalBalance, true
	}
	return nil, false
}

// NormalBalance is the side an account of the given type grows on.
func NormalBalance(accountType string) string {
	switch accountType {
	case TypeAsset, TypeExpense, TypeCostOfGoodsSold:
		return BalanceDebit
	case TypeLiability, TypeEquity, TypeRevenue:
		return BalanceCredit
	}
	return ""
}

// Screen describes the chart of accounts list.
func Screen() erp.Screen[Account] {
	return erp.Screen[Account]{
		Config: listctl.Config[Account]{
			Name:         "chart of accounts",
			Label:        "Account",
			PageSize:     25,
			SearchFields: []string{"accountId", "accountName", "accountType"},
			Statuses:     statuses,
			Columns: []listctl.Column{
				{Field: "accountId", Header: "Account ID"},
				{Field: "accountName", Header: "Account Name"},
				{Field: "accountType", Header: "Type"},
				{Field: "parentAccountId", Header: "Parent Account"},
				{Field: "normalBalance", Header: "Normal Balance"},
				{Field: "status", Header: "Status"},
				{Field: "description", Header: "Description"},
			},
			FilenameBase: "chart_of_accounts",
		},
		Kind: store.Kind[Account]{
			Name:  "accounts",
			Label: "Account",
			Seed:  seed(),
			Assign: func(input Account, seq int, _ time.Time) (Account, error) {
				if input.Status == "" {
					input.Status = StatusActive
				}
				input.ID = store.ID("acc", seq)
				return derive(input)
			},
			Revise: func(_, after Account, _ time.Time) (Account, error) {
				return derive(after)
			},
			Conflicts:  conflicts,
			Dependents: dependents,
		},
	}
}

// derive validates an account and fills the fields that follow from others.
func derive(a Account) (Account, error) {
	a.AccountID = strings.TrimSpace(a.AccountID)
	a.ParentAccountID = strings.TrimSpace(a.ParentAccountID)

	validator := &validate.Validator{}
	validator.
		Required("accountId", a.AccountID).
		MinLen("accountId", a.AccountID, accountNumberMinimum).
		MaxLen("accountId", a.AccountID, accountNumberMaximum).
		Custom("accountId", strings.ContainsFunc(a.AccountID, notDigit), "Account ID must be numeric.").
		Required("accountName", a.AccountName).
		MaxLen("accountName", a.AccountName, 100).
		OneOf("accountType", a.AccountType, types...).
		OneOf("status", a.Status, statuses...).
		Custom("parentAccountId", a.ParentAccountID != "" && a.ParentAccountID == a.AccountID,
			"An account cannot be its own parent.")
	if err := validator.Err(); err != nil {
		return Account{}, err
	}

	a.IsActive = a.Status == StatusActive
	a.NormalBalance = NormalBalance(a.AccountType)
	return a, nil
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

// conflicts keeps account numbers unique and parents real.
func conflicts(candidate Account, others []Account) error {
	parentFound := candidate.ParentAccountID == ""
	for _, other := range others {
		if other.AccountID == candidate.AccountID {
			return apperr.Conflict(fmt.Sprintf("Account ID %q already exists.", candidate.AccountID))
		}
		if other.AccountID == candidate.ParentAccountID {
			parentFound = true
		}
	}
	if !parentFound {
		return apperr.Unprocessable(fmt.Sprintf("Parent account %s does not exist.", candidate.ParentAccountID))
	}
	return nil
}

func dependents(current Account, others []Account) error {
	for _, other := range others {
		if other.ParentAccountID == current.AccountID {
			return ErrHasChildren
		}
	}
	return nil
}

// # Views

// Ordered lists accounts by account number, keeping the tree's numeric layout.
func Ordered() erp.Fill[Account] {
	return func(_ context.Context, accounts []Account) ([]Account, error) {
		slices.SortStableFunc(accounts, func(a, b Account) int {
			return strings.Compare(a.AccountID, b.AccountID)
		})
		return accounts, nil
	}
}

// Names maps account numbers to account names.
func Names(accounts []Account) map[string]string {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.AccountID] = a.AccountName
	}
	return names
}

func seed() []Account {
	type row struct {
		number, name, kind, parent, description string
		category                                bool
	}
	rows := []row{
		{"1000", "Assets", TypeAsset, "", "Main asset category", true},
		{"1010", "Cash and Bank", TypeAsset, "1000", "Liquid funds", true},
		{"1011", "Operating Bank Account", TypeAsset, "1010", "Main checking account", false},
		{"1012", "Petty Cash", TypeAsset, "1010", "Small cash on hand", false},
		{"1200", "Accounts Receivable", TypeAsset, "1000", "Money owed by customers", false},
		{"1400", "Inventory Asset", TypeAsset, "1000", "Value of goods in stock", false},
		{"1500", "Fixed Assets", TypeAsset, "1000", "Long-term assets", true},
		{"1510", "Equipment", TypeAsset, "1500", "Office and other equipment", false},
		{"2000", "Liabilities", TypeLiability, "", "Main liability category", true},
		{"2100", "Accounts Payable", TypeLiability, "2000", "Money owed to suppliers", false},
		{"2200", "Credit Card Payable", TypeLiability, "2000", "Outstanding credit card balances", false},
		{"2500", "Sales Tax Payable", TypeLiability, "2000", "Sales tax collected, owed to government", false},
		{"3000", "Equity", TypeEquity, "", "Main equity category", true},
		{"3100", "Owner's Capital", TypeEquity, "3000", "Capital contributions", false},
		{"3200", "Retained Earnings", TypeEquity, "3000", "Accumulated profits/losses", false},
		{"4000", "Revenue", TypeRevenue, "", "Main revenue category", true},
		{"4010", "Product Sales", TypeRevenue, "4000", "Revenue from selling products", false},
		{"4020", "Service Revenue", TypeRevenue, "4000", "Revenue from providing services", false},
		{"5000", "Cost of Goods Sold", TypeCostOfGoodsSold, "", "Main COGS category", true},
		{"5010", "Material Costs", TypeCostOfGoodsSold, "5000", "Cost of materials for products sold", false},
		{"6000", "Expenses", TypeExpense, "", "Main expense category", true},
		{"6010", "Rent Expense", TypeExpense, "6000", "Office or store rent", false},
		{"6020", "Utilities Expense", TypeExpense, "6000", "Electricity, water, internet, etc.", false},
		{"6100", "Salaries and Wages", TypeExpense, "6000", "Employee compensation", false},
		{"6200", "Office Supplies Expense", TypeExpense, "6000", "Expendable office supplies", false},
	}

	accounts := make([]Account, len(rows))
	for i, r := range rows {
		accounts[i] = Account{
			ID:              store.ID("acc", i+1),
			AccountID:       r.number,
			AccountName:     r.name,
			AccountType:     r.kind,
			ParentAccountID: r.parent,
			Description:     r.description,
			Status:          StatusActive,
			IsActive:        true,
			NormalBalance:   NormalBalance(r.kind),
			IsCategory:      r.category,
		}
	}
	return accounts
}
