// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the console database so
// queries never spell identifiers inline.
package schema

// ErpDocumentTable represents the 'erp.document' table
type ErpDocumentTable struct {
	Table     string
	Kind      string
	ID        string
	Seq       string
	Body      string
	CreatedAt string
	UpdatedAt string
}

// ErpDocument is the schema definition for erp.document
var ErpDocument = ErpDocumentTable{
	Table:     "erp.document",
	Kind:      "kind",
	ID:        "id",
	Seq:       "seq",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t ErpDocumentTable) Columns() []string {
	return []string{t.Kind, t.ID, t.Seq, t.Body, t.CreatedAt, t.UpdatedAt}
}
