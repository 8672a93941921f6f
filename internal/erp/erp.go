// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package erp holds what the entity packages under internal/erp share.

Each entity package (vendor, customer, invoice, ...) describes itself as a
[Screen]: the list controller configuration, the store hooks, and the workflow
actions it accepts. The console hosts any Screen without knowing its type.
*/
package erp

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
)

// Screen bundles everything needed to host one entity type.
type Screen[T listctl.Resource] struct {
	Config  listctl.Config[T]
	Kind    store.Kind[T]
	Actions map[string]ActionFunc[T]
}

// ActionFunc builds a workflow action from its request parameters.
//
// params is the raw JSON request body and may be empty.
type ActionFunc[T listctl.Resource] func(params json.RawMessage, now time.Time) (listctl.Action[T], error)

// Action looks up and builds a named action.
func (s Screen[T]) Action(name string, params json.RawMessage, now time.Time) (listctl.Action[T], error) {
	build, ok := s.Actions[name]
	if !ok {
		return listctl.Action[T]{}, apperr.NotFound("Action")
	}
	return build(params, now)
}

// ErrInvalidParams is returned when action parameters cannot be decoded.
var ErrInvalidParams = apperr.ValidationError("Invalid action parameters")

// DecodeParams decodes action parameters into dst. Empty params leave dst untouched.
func DecodeParams(params json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(params)) == 0 {
		return nil
	}

	if err := json.Unmarshal(params, dst); err != nil {
		return ErrInvalidParams
	}
	return nil
}

// # Money

// Money rounds an amount to cents.
func Money(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Percent converts a percentage ("8") into a rate (0.08).
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(decimal.NewFromInt(100))
}
