package models

// DefaultSiteName is the display name used across pages and emails.
const DefaultSiteName = "Bear Energy"
