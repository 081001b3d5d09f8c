package config

const (
	// Credential environment variables.
	EnvAccount  = "SNOWFLAKE_ACCOUNT"
	EnvUser     = "SNOWFLAKE_USER"
	EnvPAT      = "SNOWFLAKE_PAT"
	EnvPassword = "SNOWFLAKE_PASSWORD"

	// Connection option environment variables.
	EnvWarehouse    = "SNOWFLAKE_WAREHOUSE"
	EnvRole         = "SNOWFLAKE_ROLE"
	EnvDatabase     = "SNOWFLAKE_DATABASE"
	EnvSchema       = "SNOWFLAKE_SCHEMA"
	EnvLoginTimeout = "SNOWFLAKE_LOGIN_TIMEOUT"

	// Server environment variables.
	EnvAllowedTokens = "MCP_ALLOWED_TOKENS"

	DefaultLoginTimeout = 60 // seconds
)

// Descriptions of missing credentials, reported verbatim to callers.
const (
	MissingAccount  = "account_identifier (or " + EnvAccount + " env var)"
	MissingUser     = "username (or " + EnvUser + " env var)"
	MissingPassword = "password (or " + EnvPAT + "/" + EnvPassword + " env var)"
)
