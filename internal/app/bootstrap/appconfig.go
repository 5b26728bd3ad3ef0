// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request limits.
// AppConfig is where everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: teamsaas-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID      string // Google OAuth2 client ID
	GoogleClientSecret  string // Google OAuth2 client secret
	FrontendCallbackURL string // Frontend URL the OAuth flow redirects back to

	// Base URL of this service, used to build the OAuth redirect URL
	BaseURL string // e.g., "https://api.example.com" or "http://localhost:8000"
}
