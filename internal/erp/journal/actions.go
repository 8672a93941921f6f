// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package journal

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taibuivan/erpconsole/internal/erp"
	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/apperr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
)

func post(_ json.RawMessage, now time.Time) (listctl.Action[Entry], error) {
	today := store.Today(now)

	return listctl.Action[Entry]{
		Name: "post",
		Done: "posted",
		From: []string{StatusDraft},
		Apply: func(current Entry) (Entry, error) {
			if _, _, err := current.Balance(); err != nil {
				return Entry{}, err
			}
			current.Status = StatusPosted
			current.PostedDate = today
			return current, nil
		},
	}, nil
}

// Voiding is the request body of the void action.
type Voiding struct {
	Reason string `json:"reason"`
}

func void(params json.RawMessage, _ time.Time) (listctl.Action[Entry], error) {
	var voiding Voiding
	if err := erp.DecodeParams(params, &voiding); err != nil {
		return listctl.Action[Entry]{}, err
	}

	reason := strings.TrimSpace(voiding.Reason)
	if reason == "" {
		return listctl.Action[Entry]{}, apperr.ValidationError("Void reason cannot be empty.")
	}

	return listctl.Action[Entry]{
		Name: "void",
		Done: "voided",
		From: []string{StatusPosted},
		Apply: func(current Entry) (Entry, error) {
			if current.Status != StatusPosted {
				return Entry{}, apperr.InvalidTransition("Only posted entries can be voided.")
			}
			current.Status = StatusVoided
			current.Description = voidedDescription(current.Description, reason)
			return current, nil
		},
	}, nil
}
