// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/erpconsole/pkg/slice"
)

// # Filter Engine

// Filter derives the View from a Collection.
//
// With empty criteria the input is returned as-is. Otherwise only items whose
// status equals criteria.Status (when set) and whose search fields contain
// criteria.Search case-insensitively (when set) are kept, in input order.
func Filter[T Resource](items []T, criteria Criteria, searchFields []string) []T {
	if criteria.IsEmpty() {
		return items
	}

	folder := cases.Fold()
	needle := folder.String(criteria.Search)

	return slice.Filter(items, func(item T) bool {
		if criteria.Status != "" && statusOf(item) != criteria.Status {
			return false
		}
		if needle == "" {
			return true
		}

		for _, field := range searchFields {
			value, ok := item.Field(field)
			if !ok {
				continue
			}
			if strings.Contains(folder.String(Stringify(value)), needle) {
				return true
			}
		}
		return false
	})
}

// statusOf returns the item's status facet value, or "" if it has none.
func statusOf[T Resource](item T) string {
	value, ok := item.Field(StatusField)
	if !ok {
		return ""
	}
	return Stringify(value)
}

// Stringify renders a field value the way it appears in search and CSV cells.
//
// Nil values (including typed nil pointers) render as "".
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ",")
	case fmt.Stringer:
		if isNilPointer(v) {
			return ""
		}
		return v.String()
	}

	if isNilPointer(value) {
		return ""
	}
	return fmt.Sprint(value)
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
