// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to mepad. The struct is passed to
// most lifecycle hooks, so any configuration needed during startup,
// request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string        // HMAC signing key (at least 32 bytes in prod)
	JWTIssuer string        // iss claim
	JWTTTL    time.Duration // token lifetime

	// Admin bootstrap. Blank email skips it.
	AdminEmail    string
	AdminPassword string

	// Action point assignee modelling: "text" or "user"
	ActionPointAssignee string

	// Per-IP limit on /api/auth/register and /api/auth/login
	AuthRateLimit int // requests per minute
	AuthRateBurst int

	// Audit logging destinations: "all", "db", "log" or "off"
	AuditLogAuth    string
	AuditLogMeeting string
	AuditLogTask    string

	// Request deadlines for database work
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
