package schema

import "github.com/vilmerfrost/solvix/constants"

// DefaultSchemaID marks an in-memory synthesized schema.
const DefaultSchemaID = "default"

// DefaultTemplate synthesizes the built-in schema used when no schema is
// published for a document type. Extraction must never fail purely for lack
// of configuration.
func DefaultTemplate(docType constants.DocType) TemplateDefinition {
	return TemplateDefinition{
		SchemaID: DefaultSchemaID,
		Version:  1,
		DocType:  docType,
		Fields: []FieldDef{
			{Key: "documentId", Label: "Document ID", Type: "text", Required: true},
			{Key: "supplier", Label: "Supplier", Type: "text"},
			{Key: "customer", Label: "Customer", Type: "text"},
			{Key: "date", Label: "Date", Type: "date", Required: true},
			{Key: "dueDate", Label: "Due Date", Type: "date"},
			{Key: "amount", Label: "Amount", Type: "number"},
			{Key: "currency", Label: "Currency", Type: "currency"},
			{Key: "status", Label: "Status", Type: "text"},
		},
		Tables: []TableDef{
			{
				Key:   "lineItems",
				Label: "Line Items",
				Fields: []FieldDef{
					{Key: "description", Label: "Description", Type: "text"},
					{Key: "quantity", Label: "Quantity", Type: "number"},
					{Key: "unitPrice", Label: "Unit Price", Type: "number"},
					{Key: "total", Label: "Total", Type: "number"},
				},
			},
		},
	}
}
