// Package models contains the GORM persistence models for the back-office
// tables read by the revenue center reports. They stay separate from the
// domain types so the domain layer carries no ORM tags; repositories convert
// with ToDomain/FromDomain.
package models
