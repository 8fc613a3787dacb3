// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// timeouts). AppConfig is everything specific to the deal-flow platform:
// database connection, session cookies, file storage, SMTP, and OAuth.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: dealflow-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration for project data-room documents
	StorageLocalPath string // Local storage path (e.g., "./uploads/documents")
	StorageLocalURL  string // URL prefix for serving local files

	// Email/SMTP configuration
	MailEnabled  bool   // When false, outbound email is logged instead of sent
	MailSMTPHost string // SMTP server host
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username (empty disables authentication)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Base URL for links in outbound email
	BaseURL string // e.g., "https://bearenergy.co.uk" or "http://localhost:3000"

	// Google OAuth configuration (blank disables the Google sign-in button)
	GoogleClientID     string
	GoogleClientSecret string

	// Initial admin bootstrap. When the users collection has no admin and a
	// password is configured, Startup seeds one admin account.
	InitialAdminUsername string
	InitialAdminPassword string
}
