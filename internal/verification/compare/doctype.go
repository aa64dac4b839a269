// internal/verification/compare/doctype.go
package compare

import "strings"

// DocType selects the weight table used for a comparison.
type DocType string

const (
	DocInvoice     DocType = "invoice"
	DocFeesReceipt DocType = "fees_receipt"
	DocMarksheet   DocType = "marksheet"
	DocStudentID   DocType = "student_id"
	DocDefault     DocType = "default"
)

var docTypeAliases = map[string]DocType{
	"invoice":      DocInvoice,
	"bill":         DocInvoice,
	"fees_receipt": DocFeesReceipt,
	"fee_receipt":  DocFeesReceipt,
	"fee":          DocFeesReceipt,
	"receipt":      DocFeesReceipt,
	"marksheet":    DocMarksheet,
	"mark_sheet":   DocMarksheet,
	"result":       DocMarksheet,
	"student_id":   DocStudentID,
	"id_card":      DocStudentID,
	"id":           DocStudentID,
}

// ParseDocType resolves a doc-type label or alias. Unknown labels map to
// DocDefault.
func ParseDocType(s string) DocType {
	if dt, ok := docTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return dt
	}
	return DocDefault
}

// identityDoc reports whether OCR on this document type commonly drops a
// first or last name token.
func (d DocType) identityDoc() bool {
	return d == DocStudentID || d == DocMarksheet
}

// FieldWeight is one entry of a weight table.
type FieldWeight struct {
	Field  string `json:"field"`
	Weight int    `json:"weight"`
}

var weightTables = map[DocType][]FieldWeight{
	DocInvoice: {
		{"name", 20},
		{"phone", 15},
		{"address", 15},
		{"amount", 20},
		{"vendor_name", 10},
		{"item", 15},
		{"color", 5},
	},
	DocFeesReceipt: {
		{"name", 45},
		{"college", 35},
		{"amount", 20},
	},
	DocMarksheet: {
		{"name", 60},
		{"college", 40},
	},
	DocStudentID: {
		{"name", 40},
		{"college", 60},
	},
	DocDefault: {
		{"name", 50},
		{"college", 30},
		{"amount", 20},
	},
}

// Weights returns a copy of the ordered weight table for d.
func Weights(d DocType) []FieldWeight {
	table, ok := weightTables[d]
	if !ok {
		table = weightTables[DocDefault]
	}
	return append([]FieldWeight(nil), table...)
}
