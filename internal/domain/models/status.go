package models

// Shared status values for users, deals, introducers, mandates, and
// project uploads. Not every status applies to every collection; each
// document type documents its own subset.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)
