// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/taibuivan/erpconsole/pkg/slice"
)

// # Exporter

// ExportResult describes a finished export.
type ExportResult struct {
	Filename string
	Rows     int
}

// Export writes the whole current View (every page) to w as CSV.
//
// An empty View writes nothing, emits an info toast and returns a result with
// zero rows.
func (c *Controller[T]) Export(w io.Writer, now time.Time) (ExportResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ExportResult{}, ErrClosed
	}
	view := c.viewLocked()
	c.mu.Unlock()

	if len(view) == 0 {
		c.notifier.Info(fmt.Sprintf("No %s to export based on current filters.", c.config.Name))
		return ExportResult{}, nil
	}

	if err := WriteCSV(w, view, c.config.Columns); err != nil {
		c.logger.Error("list_export_failed", slog.Any("error", err))
		return ExportResult{}, err
	}

	result := ExportResult{
		Filename: Filename(c.config.FilenameBase, now),
		Rows:     len(view),
	}

	c.logger.Info("list_exported", slog.String("filename", result.Filename), slog.Int("rows", result.Rows))
	c.notifier.Info(fmt.Sprintf("%s list is being downloaded.", c.title()))
	return result, nil
}

// Filename builds the download name "{base}_{YYYY-MM-DD}.csv" in UTC.
func Filename(base string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", base, now.UTC().Format(time.DateOnly))
}

// WriteCSV writes a header row followed by one row per item.
//
// Records end in CRLF and cells are quoted per RFC 4180 whenever they contain
// a delimiter, quote or line break; missing fields render as an empty cell.
func WriteCSV[T Resource](w io.Writer, items []T, columns []Column) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	header := slice.Map(columns, func(column Column) string { return column.Header })
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for _, item := range items {
		for i, column := range columns {
			value, _ := item.Field(column.Field)
			row[i] = Stringify(value)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
