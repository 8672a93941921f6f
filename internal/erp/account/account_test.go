// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/account"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

type recorder struct{ success, errors []string }

func (r *recorder) Success(m string) { r.success = append(r.success, m) }
func (r *recorder) Error(m string)   { r.errors = append(r.errors, m) }
func (r *recorder) Info(string)      {}

func newController(t *testing.T) (*listctl.Controller[account.Account], *recorder) {
	t.Helper()

	screen := account.Screen()
	backing := erp.Decorate[account.Account](memstore.New(screen.Kind), account.Ordered())
	rec := &recorder{}
	ctrl := listctl.New(screen.Config, backing, rec, nil)
	require.NoError(t, ctrl.Load(context.Background()))
	return ctrl, rec
}

func numbers(accounts []account.Account) []string {
	out := []string{}
	for _, a := range accounts {
		out = append(out, a.AccountID)
	}
	return out
}

/*
TestAccounts_Search matches account number, name and type.
*/
func TestAccounts_Search(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"101", []string{"1010", "1011", "1012"}},
		{"payable", []string{"2100", "2200", "2500"}},
		{"cost of goods", []string{"5000", "5010"}},
		{"main checking", []string{}},
	}

	ctrl, _ := newController(t)
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			ctrl.SetSearch(tt.search)
			assert.Equal(t, tt.want, numbers(ctrl.Snapshot().Items))
		})
	}
}

/*
TestAccounts_Create keeps the chart ordered and derives the normal balance.
*/
func TestAccounts_Create(t *testing.T) {
	ctrl, rec := newController(t)

	created, err := ctrl.Create(context.Background(), account.Account{
		AccountID:       "1013",
		AccountName:     "Savings Account",
		AccountType:     account.TypeAsset,
		ParentAccountID: "1010",
	})
	require.NoError(t, err)

	assert.Equal(t, "acc026", created.ID)
	assert.Equal(t, account.StatusActive, created.Status)
	assert.True(t, created.IsActive)
	assert.Equal(t, account.BalanceDebit, created.NormalBalance)
	assert.Equal(t, []string{"Account 1013 created successfully!"}, rec.success)

	require.NoError(t, ctrl.Load(context.Background()))
	ctrl.SetSearch("101")
	assert.Equal(t, []string{"1010", "1011", "1012", "1013"}, numbers(ctrl.Snapshot().Items))
}

/*
TestAccounts_CreateRejected covers duplicates, missing parents and bad numbers.
*/
func TestAccounts_CreateRejected(t *testing.T) {
	tests := []struct {
		name  string
		input account.Account
		code  string
	}{
		{"duplicate_number", account.Account{AccountID: "1010", AccountName: "Cash", AccountType: account.TypeAsset}, "CONFLICT"},
		{"missing_parent", account.Account{AccountID: "7010", AccountName: "Misc", AccountType: account.TypeExpense, ParentAccountID: "7000"}, "UNPROCESSABLE"},
		{"own_parent", account.Account{AccountID: "7000", AccountName: "Misc", AccountType: account.TypeExpense, ParentAccountID: "7000"}, "VALIDATION_ERROR"},
		{"not_numeric", account.Account{AccountID: "CASH", AccountName: "Cash", AccountType: account.TypeAsset}, "VALIDATION_ERROR"},
		{"unknown_type", account.Account{AccountID: "7000", AccountName: "Misc", AccountType: "Other"}, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, _ := newController(t)

			_, err := ctrl.Create(context.Background(), tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, 25, ctrl.Snapshot().CollectionSize)
		})
	}
}

/*
TestAccounts_UpdateRejectsDuplicateNumber keeps account numbers unique on edit.
*/
func TestAccounts_UpdateRejectsDuplicateNumber(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.Update(context.Background(), "acc004", func(current account.Account) (account.Account, error) {
		current.AccountID = "1011"
		return current, nil
	})
	require.Error(t, err)
	assert.Equal(t, `Account ID "1011" already exists.`, apperr.As(err).Message)

	deactivated, err := ctrl.Update(context.Background(), "acc004", func(current account.Account) (account.Account, error) {
		current.Status = account.StatusInactive
		return current, nil
	})
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}

/*
TestAccounts_Remove refuses parents and deletes leaf accounts.
*/
func TestAccounts_Remove(t *testing.T) {
	ctx := context.Background()
	ctrl, rec := newController(t)

	err := ctrl.Remove(ctx, "acc002", true)
	require.Error(t, err)
	assert.Equal(t, account.ErrHasChildren.Message, apperr.As(err).Message)
	assert.Equal(t, []string{
		"Failed to delete account. Cannot delete account: It is a parent to other accounts. Reassign children first.",
	}, rec.errors)

	require.NoError(t, ctrl.Remove(ctx, "acc003", true))
	require.NoError(t, ctrl.Remove(ctx, "acc004", true))
	require.NoError(t, ctrl.Remove(ctx, "acc002", true))
	assert.Equal(t, 22, ctrl.Snapshot().CollectionSize)
}

/*
TestAccounts_StatusFacet filters on the active flag.
*/
func TestAccounts_StatusFacet(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.Update(context.Background(), "acc012", func(current account.Account) (account.Account, error) {
		current.Status = account.StatusInactive
		return current, nil
	})
	require.NoError(t, err)

	require.NoError(t, ctrl.SetStatus(account.StatusInactive))
	assert.Equal(t, []string{"2500"}, numbers(ctrl.Snapshot().Items))
}

/*
TestNormalBalance follows the account type.
*/
func TestNormalBalance(t *testing.T) {
	assert.Equal(t, account.BalanceDebit, account.NormalBalance(account.TypeExpense))
	assert.Equal(t, account.BalanceCredit, account.NormalBalance(account.TypeRevenue))
	assert.Empty(t, account.NormalBalance("Other"))
}
