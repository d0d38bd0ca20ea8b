// Package printing contains the export document bounded context.
// It produces the Shipper's Letter of Instruction (SLI): the fixed 48-box
// form a shipper hands to the freight forwarder for export filing.
//
// The package is pure: it aggregates line items into classification rows,
// resolves checkbox state and declares the form grid that every renderer
// draws from. Loading data and producing bytes live in infrastructure.
package printing
