// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package journal_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/account"
	"github.com/taibuivan/erpconsole/internal/erp/journal"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store/memstore"
)

var now = time.Date(2026, 6, 30, 9, 0, 0, 0, time.UTC)

type recorder struct{ success []string }

func (r *recorder) Success(m string) { r.success = append(r.success, m) }
func (r *recorder) Error(string)     {}
func (r *recorder) Info(string)      {}

type fixture struct {
	ctrl   *listctl.Controller[journal.Entry]
	screen erp.Screen[journal.Entry]
	rec    *recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	screen := journal.Screen()
	backing := erp.Decorate[journal.Entry](
		memstore.New(screen.Kind, memstore.WithClock(func() time.Time { return now })),
		journal.Ledger(memstore.New(account.Screen().Kind)),
	)
	rec := &recorder{}
	ctrl := listctl.New(screen.Config, backing, rec, nil)
	require.NoError(t, ctrl.Load(context.Background()))
	return fixture{ctrl: ctrl, screen: screen, rec: rec}
}

func (f fixture) run(t *testing.T, id, action, body string) (journal.Entry, error) {
	t.Helper()

	built, err := f.screen.Action(action, json.RawMessage(body), now)
	if err != nil {
		return journal.Entry{}, err
	}
	return f.ctrl.Transition(context.Background(), id, built)
}

func lines(debit, credit int64) []journal.Line {
	return []journal.Line{
		{AccountID: "1510", Debit: decimal.NewFromInt(debit), Description: "Laser printer"},
		{AccountID: "1011", Credit: decimal.NewFromInt(credit), Description: "Paid by transfer"},
	}
}

/*
TestJournal_Ordering lists entries newest first.
*/
func TestJournal_Ordering(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for _, e := range f.ctrl.Snapshot().Items {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"je003", "je002", "je001"}, ids)
}

/*
TestJournal_Search matches line memos and account names.
*/
func TestJournal_Search(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"owner", []string{"je002"}},
		{"rent expense", []string{"je001"}},
		{"JE-2023-0003", []string{"je003"}},
		{"payroll", nil},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			f := newFixture(t)
			f.ctrl.SetSearch(tt.search)

			var ids []string
			for _, e := range f.ctrl.Snapshot().Items {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

/*
TestJournal_Create numbers the entry from its date and totals the lines.
*/
func TestJournal_Create(t *testing.T) {
	f := newFixture(t)

	created, err := f.ctrl.Create(context.Background(), journal.Entry{
		EntryDate:   "2025-12-31",
		Description: "Printer purchase",
		Lines:       lines(300, 300),
		CreatedBy:   "emp001",
	})
	require.NoError(t, err)

	assert.Equal(t, "je004", created.ID)
	assert.Equal(t, "JE-2025-0004", created.EntryNumber)
	assert.Equal(t, journal.StatusDraft, created.Status)
	assert.Empty(t, created.PostedDate)
	assert.Equal(t, "300", created.TotalDebits.String())
	assert.Equal(t, "300", created.TotalCredits.String())
	assert.Equal(t, "Equipment", created.Lines[0].AccountName)
	assert.Equal(t, "Operating Bank Account", created.Lines[1].AccountName)
	assert.Equal(t, []string{"Journal Entry JE-2025-0004 created successfully!"}, f.rec.success)
}

/*
TestJournal_CreateRejected refuses unbalanced and empty entries.
*/
func TestJournal_CreateRejected(t *testing.T) {
	tests := []struct {
		name    string
		lines   []journal.Line
		code    string
		message string
	}{
		{"unbalanced", lines(300, 250), "UNPROCESSABLE", "Debits must equal credits for the journal entry."},
		{"zero", lines(0, 0), "UNPROCESSABLE", "Journal entry must have non-zero debit/credit amounts."},
		{"single_line", lines(300, 300)[:1], "VALIDATION_ERROR", "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.ctrl.Create(context.Background(), journal.Entry{
				Description: "Bad entry",
				Lines:       tt.lines,
			})
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			if tt.code != "VALIDATION_ERROR" {
				assert.Equal(t, tt.message, ae.Message)
			}
			assert.Equal(t, 3, f.ctrl.Snapshot().CollectionSize)
		})
	}
}

/*
TestJournal_Post posts a draft and stamps the posting date.
*/
func TestJournal_Post(t *testing.T) {
	f := newFixture(t)

	posted, err := f.run(t, "je003", "post", "")
	require.NoError(t, err)
	assert.Equal(t, journal.StatusPosted, posted.Status)
	assert.Equal(t, "2026-06-30", posted.PostedDate)
	assert.Equal(t, []string{"Journal Entry JE-2023-0003 posted successfully!"}, f.rec.success)

	_, err = f.run(t, "je003", "post", "")
	require.Error(t, err)
	assert.Equal(t, "Journal Entry JE-2023-0003 is already posted and cannot be posted.", apperr.As(err).Message)
}

/*
TestJournal_Void voids posted entries with a reason and freezes them.
*/
func TestJournal_Void(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	voided, err := f.run(t, "je001", "void", `{"reason":"Duplicate entry"}`)
	require.NoError(t, err)
	assert.Equal(t, journal.StatusVoided, voided.Status)
	assert.Equal(t, "[VOIDED] Record office rent payment for November. - Reason: Duplicate entry", voided.Description)

	_, err = f.run(t, "je001", "void", `{"reason":"Again"}`)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)

	_, err = f.ctrl.Update(ctx, "je001", func(current journal.Entry) (journal.Entry, error) {
		current.Description = "Edited"
		return current, nil
	})
	require.Error(t, err)
	assert.Equal(t, "Cannot edit a voided journal entry.", apperr.As(err).Message)
}

/*
TestJournal_VoidRejected needs a reason and a posted entry.
*/
func TestJournal_VoidRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "je002", "void", `{"reason":"  "}`)
	require.Error(t, err)
	assert.Equal(t, "Void reason cannot be empty.", apperr.As(err).Message)

	_, err = f.run(t, "je003", "void", `{"reason":"Typo"}`)
	require.Error(t, err)
	assert.Equal(t, "Journal Entry JE-2023-0003 is already draft and cannot be voided.", apperr.As(err).Message)
}

/*
TestJournal_Update rebalances drafts and stamps the posting date on posting.
*/
func TestJournal_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	updated, err := f.ctrl.Update(ctx, "je003", func(current journal.Entry) (journal.Entry, error) {
		current.Lines[0].Debit = decimal.NewFromInt(175)
		current.Lines[1].Credit = decimal.NewFromInt(175)
		current.Status = journal.StatusPosted
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "175", updated.TotalDebits.String())
	assert.Equal(t, "2026-06-30", updated.PostedDate)
	assert.Equal(t, "JE-2023-0003", updated.EntryNumber)

	_, err = f.ctrl.Update(ctx, "je002", func(current journal.Entry) (journal.Entry, error) {
		current.Lines[0].Debit = decimal.NewFromInt(1)
		return current, nil
	})
	require.Error(t, err)
	assert.Equal(t, journal.ErrUnbalanced.Message, apperr.As(err).Message)
}

/*
TestJournal_Remove deletes drafts only.
*/
func TestJournal_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.ctrl.Remove(ctx, "je001", true)
	require.Error(t, err)
	assert.Equal(t, "Only draft entries can be deleted.", apperr.As(err).Message)

	require.NoError(t, f.ctrl.Remove(ctx, "je003", true))
	assert.Equal(t, 2, f.ctrl.Snapshot().CollectionSize)
}

/*
TestChart_Name falls back for unknown accounts.
*/
func TestChart_Name(t *testing.T) {
	chart := journal.Chart(account.Names(account.Screen().Kind.Seed))
	assert.Equal(t, "Owner's Capital", chart.Name("3100"))
	assert.Equal(t, "Unknown Account", chart.Name("9999"))
}

/*
TestJournal_LedgerFollowsRenamedAccount reads account names from the chart store.
*/
func TestJournal_LedgerFollowsRenamedAccount(t *testing.T) {
	ctx := context.Background()
	accounts := memstore.New(account.Screen().Kind)
	screen := journal.Screen()
	ctrl := listctl.New(screen.Config, erp.Decorate[journal.Entry](memstore.New(screen.Kind), journal.Ledger(accounts)), nil, nil)

	_, err := accounts.Update(ctx, "acc022", func(current account.Account) (account.Account, error) {
		current.AccountName = "Office Lease"
		return current, nil
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.Load(ctx))

	entry, ok := ctrl.Find("je001")
	require.True(t, ok)
	assert.Equal(t, "Office Lease", entry.Lines[0].AccountName)
}
