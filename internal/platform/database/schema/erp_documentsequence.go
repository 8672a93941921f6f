// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ErpDocumentSequenceTable represents the 'erp.documentsequence' table
type ErpDocumentSequenceTable struct {
	Table     string
	Kind      string
	LastValue string
}

// ErpDocumentSequence is the schema definition for erp.documentsequence
var ErpDocumentSequence = ErpDocumentSequenceTable{
	Table:     "erp.documentsequence",
	Kind:      "kind",
	LastValue: "lastvalue",
}

func (t ErpDocumentSequenceTable) Columns() []string {
	return []string{t.Kind, t.LastValue}
}
