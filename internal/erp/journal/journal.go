// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package journal is the general ledger journal entries screen.

An entry's debits must equal its credits. Drafts may be edited, posted or
deleted; posted entries can only be voided, which keeps them on the ledger
with a reason.
*/
package journal

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/erp/account"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
	"github.com/taibuivan/erpconsole/internal/platform/validate"
)

// Entry statuses.
const (
	StatusDraft  = "Draft"
	StatusPosted = "Posted"
	StatusVoided = "Voided"
)

var statuses = []string{StatusDraft, StatusPosted, StatusVoided}

var (
	// ErrUnbalanced is returned when debits and credits differ.
	ErrUnbalanced = apperr.Unprocessable("Debits must equal credits for the journal entry.")

	// ErrEmpty is returned when an entry moves no money.
	ErrEmpty = apperr.Unprocessable("Journal entry must have non-zero debit/credit amounts.")
)

// Line is one debit or credit against an account.
type Line struct {
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// Entry is a journal entry.
type Entry struct {
	ID           string          `json:"id"`
	EntryNumber  string          `json:"entryNumber"`
	EntryDate    string          `json:"entryDate"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Lines        []Line          `json:"lines"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	PostedDate   string          `json:"postedDate,omitempty"`
	CreatedBy    string          `json:"createdBy"`
}

// Balance totals the lines and checks that they balance to a non-zero amount.
func (e Entry) Balance() (debits, credits decimal.Decimal, err error) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	switch {
	case !debits.Equal(credits):
		return debits, credits, ErrUnbalanced
	case debits.IsZero():
		return debits, credits, ErrEmpty
	}
	return debits, credits, nil
}

func (e Entry) ResourceID() string  { return e.ID }
func (e Entry) DisplayCode() string { return e.EntryNumber }

func (e Entry) Field(name string) (any, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "entryNumber":
		return e.EntryNumber, true
	case "entryDate":
		return e.EntryDate, true
	case "description":
		return e.Description, true
	case "status":
		return e.Status, true
	case "lines":
		text := make([]string, 0, 2*len(e.Lines))
		for _, line := range e.Lines {
			text = append(text, line.Description, line.AccountName)
		}
		return text, true
	case "totalDebits":
		return e.TotalDebits, true
	case "totalCredits":
		return e.TotalCredits, true
	case "postedDate":
		return e.PostedDate, true
	case "createdBy":
		return e.CreatedBy, true
	}
	return nil, false
}

// Screen describes the journal entries list.
func Screen() erp.Screen[Entry] {
	return erp.Screen[Entry]{
		Config: listctl.Config[Entry]{
			Name:             "journal entries",
			Label:            "Journal Entry",
			PageSize:         10,
			SearchFields:     []string{"entryNumber", "description", "lines"},
			Statuses:         statuses,
			TerminalStatuses: []string{StatusVoided},
			Columns: []listctl.Column{
				{Field: "entryNumber", Header: "Entry #"},
				{Field: "entryDate", Header: "Entry Date"},
				{Field: "description", Header: "Description"},
				{Field: "status", Header: "Status"},
				{Field: "totalDebits", Header: "Total Debits"},
				{Field: "totalCredits", Header: "Total Credits"},
				{Field: "postedDate", Header: "Posted Date"},
				{Field: "createdBy", Header: "Created By"},
			},
			FilenameBase: "journal_entries_list",
		},
		Kind: store.Kind[Entry]{
			Name:   "journalentries",
			Label:  "Journal Entry",
			Seed:   seed(),
			Assign: assign,
			Revise: revise,
			Removable: func(current Entry) error {
				if current.Status != StatusDraft {
					return apperr.Unprocessable("Only draft entries can be deleted.")
				}
				return nil
			},
		},
		Actions: map[string]erp.ActionFunc[Entry]{
			"post": post,
			"void": void,
		},
	}
}

func assign(input Entry, seq int, now time.Time) (Entry, error) {
	if input.EntryDate == "" {
		input.EntryDate = store.Today(now)
	}
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if err := check(input); err != nil {
		return Entry{}, err
	}

	debits, credits, err := input.Balance()
	if err != nil {
		return Entry{}, err
	}

	year := now.UTC().Year()
	if date, err := time.Parse(time.DateOnly, input.EntryDate); err == nil {
		year = date.Year()
	}

	input.ID = store.ID("je", seq)
	input.EntryNumber = store.Code("JE", year, seq)
	input.TotalDebits, input.TotalCredits = debits, credits
	input.PostedDate = ""
	if input.Status == StatusPosted {
		input.PostedDate = store.Today(now)
	}
	return input, nil
}

func revise(before, after Entry, now time.Time) (Entry, error) {
	if before.Status == StatusVoided {
		return Entry{}, apperr.Unprocessable("Cannot edit a voided journal entry.")
	}
	if after.Status == StatusVoided {
		return Entry{}, apperr.InvalidTransition("Use the void action to void a journal entry.")
	}
	after.EntryNumber = before.EntryNumber

	if err := check(after); err != nil {
		return Entry{}, err
	}

	debits, credits, err := after.Balance()
	if err != nil {
		return Entry{}, err
	}
	after.TotalDebits, after.TotalCredits = debits, credits

	after.PostedDate = before.PostedDate
	if after.Status == StatusPosted && before.Status != StatusPosted {
		after.PostedDate = store.Today(now)
	}
	return after, nil
}

func check(e Entry) error {
	validator := &validate.Validator{}
	validator.
		Required("entryDate", e.EntryDate).
		Date("entryDate", e.EntryDate).
		Custom("description", strings.TrimSpace(e.Description) == "", "Description/Memo is required.").
		OneOf("status", e.Status, StatusDraft, StatusPosted).
		Custom("lines", len(e.Lines) < 2, "A journal entry needs at least two lines.")

	for _, line := range e.Lines {
		validator.
			Required("lines.accountId", line.AccountID).
			NotNegative("lines.debit", line.Debit).
			NotNegative("lines.credit", line.Credit).
			Custom("lines.amount", line.Debit.IsPositive() && line.Credit.IsPositive(), "A line is either a debit or a credit.")
	}
	return validator.Err()
}

// # Ledger view

// Ledger resolves account names from the chart of accounts and orders
// entries newest first.
func Ledger(accounts erp.Lister[account.Account]) erp.Fill[Entry] {
	return func(ctx context.Context, entries []Entry) ([]Entry, error) {
		chart, err := accounts.List(ctx)
		if err != nil {
			return nil, err
		}
		names := Chart(account.Names(chart))

		for i := range entries {
			for j := range entries[i].Lines {
				line := &entries[i].Lines[j]
				line.AccountName = names.Name(line.AccountID)
			}
		}

		slices.SortStableFunc(entries, func(a, b Entry) int {
			return strings.Compare(b.EntryDate, a.EntryDate)
		})
		return entries, nil
	}
}

// Chart maps account numbers to account names.
type Chart map[string]string

// Name returns the account name, or a placeholder for unknown accounts.
func (c Chart) Name(accountID string) string {
	if name, ok := c[accountID]; ok {
		return name
	}
	return "Unknown Account"
}

func amount(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func pair(debitAccount, creditAccount string, value int64, debitMemo, creditMemo string) []Line {
	return []Line{
		{AccountID: debitAccount, Debit: amount(value), Credit: decimal.Zero, Description: debitMemo},
		{AccountID: creditAccount, Debit: decimal.Zero, Credit: amount(value), Description: creditMemo},
	}
}

func seed() []Entry {
	entries := []Entry{
		{
			ID: "je001", EntryNumber: "JE-2023-0001", EntryDate: "2023-11-01",
			Description: "Record office rent payment for November.", Status: StatusPosted,
			Lines:      pair("6010", "1011", 1200, "November Rent", "Paid from Operating Account"),
			PostedDate: "2023-11-01", CreatedBy: "emp004",
		},
		{
			ID: "je002", EntryNumber: "JE-2023-0002", EntryDate: "2023-11-05",
			Description: "Owner investment into the company.", Status: StatusPosted,
			Lines:      pair("1011", "3100", 5000, "Cash received", "Owner capital contribution"),
			PostedDate: "2023-11-05", CreatedBy: "emp001",
		},
		{
			ID: "je003", EntryNumber: "JE-2023-0003", EntryDate: "2023-11-10",
			Description: "Purchase of office supplies on account.", Status: StatusDraft,
			Lines:     pair("6200", "2100", 150, "Stationery and supplies", "Owed to Global Supplies Co."),
			CreatedBy: "emp002",
		},
	}
	names := Chart(account.Names(account.Screen().Kind.Seed))
	for i := range entries {
		entries[i].TotalDebits, entries[i].TotalCredits, _ = entries[i].Balance()
		for j := range entries[i].Lines {
			entries[i].Lines[j].AccountName = names.Name(entries[i].Lines[j].AccountID)
		}
	}
	return entries
}

// voidedDescription marks a voided entry's memo with the reason.
func voidedDescription(description, reason string) string {
	return fmt.Sprintf("[VOIDED] %s - Reason: %s", description, reason)
}
