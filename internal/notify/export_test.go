// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import "time"

// SetClock replaces the inbox time source in tests.
func (i *Inbox) SetClock(now func() time.Time) {
	i.now = now
}
