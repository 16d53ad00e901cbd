// Package models contains the gorm persistence models. Domain entities carry
// no ORM tags; each model converts to and from its entity with ToDomain and
// FromDomain.
package models
