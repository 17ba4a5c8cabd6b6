// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/mepad/internal/app/features/meetings"
	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	devJWTSecret      = "dev-only-change-me-please-0123456789ABCDEF"
	minProdSecretSize = 32
)

// appConfigKeys defines the configuration keys for mepad.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: MEPAD_MONGO_URI, MEPAD_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "mepad", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "Token signing key (must be strong in production)"},
	{Name: "jwt_issuer", Default: "mepad", Desc: "Token issuer claim"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Token lifetime (e.g., 24h, 90m)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (promotes/creates on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created admin user"},

	// Meetings
	{Name: "action_point_assignee", Default: meetings.AssigneeText, Desc: "Action point assignee: 'text' (free text) or 'user' (user id)"},

	// Rate limiting
	{Name: "auth_rate_limit", Default: 10, Desc: "Login/register requests per minute per client IP"},
	{Name: "auth_rate_burst", Default: 5, Desc: "Burst allowance for the auth rate limit"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_meeting", Default: "all", Desc: "Meeting event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_task", Default: "all", Desc: "Task event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document database work"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list and dashboard queries"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, MEPAD_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MEPAD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Tokens
		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		// Admin
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		ActionPointAssignee: strings.ToLower(strings.TrimSpace(appValues.String("action_point_assignee"))),

		// Rate limiting
		AuthRateLimit: appValues.Int("auth_rate_limit"),
		AuthRateBurst: appValues.Int("auth_rate_burst"),

		// Audit logging
		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogMeeting: appValues.String("audit_log_meeting"),
		AuditLogTask:    appValues.String("audit_log_task"),

		// Timeouts
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < minProdSecretSize {
			return fmt.Errorf("jwt_secret must be set to at least %d characters in prod", minProdSecretSize)
		}
	}
	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if appCfg.JWTTTL <= 0 {
		return fmt.Errorf("jwt_ttl must be positive")
	}

	switch appCfg.ActionPointAssignee {
	case meetings.AssigneeText, meetings.AssigneeUser:
	default:
		return fmt.Errorf("action_point_assignee must be %q or %q, got %q",
			meetings.AssigneeText, meetings.AssigneeUser, appCfg.ActionPointAssignee)
	}

	if appCfg.AuthRateLimit <= 0 || appCfg.AuthRateBurst <= 0 {
		return fmt.Errorf("auth_rate_limit and auth_rate_burst must be positive")
	}

	for key, mode := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_meeting": appCfg.AuditLogMeeting,
		"audit_log_task":    appCfg.AuditLogTask,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, mode)
		}
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword != "" && len(appCfg.AdminPassword) < 8 {
		return fmt.Errorf("admin_password must be at least 8 characters")
	}

	return nil
}
