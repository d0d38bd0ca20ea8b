// Package models contains GORM persistence models for the records an SLI is
// assembled from. They stay separate from the printing domain types so the
// domain layer carries no ORM tags.
//
// Structure:
//   - base.go: BaseModel and TenantModel
//   - sli.go: companies, forwarders, products, orders with their items and
//     shipment details, and standalone SLI documents
package models
