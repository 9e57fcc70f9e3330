// Package store declares the persistence interfaces and sentinel errors used
// by the service layer. The postgres package implements them.
//
// Lookups that take a userID enforce ownership in the query itself: an entity
// that exists but belongs to someone else is reported as not found.
package store
