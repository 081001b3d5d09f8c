package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LookupFunc reports the value of an environment variable and whether it was set.
type LookupFunc func(string) (string, bool)

// OSLookup reads from the process environment.
func OSLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Credentials identify a Snowflake principal. Secret is either a programmatic
// access token or a password.
type Credentials struct {
	Account string
	User    string
	Secret  string
}

// ResolveCredentials fills each empty field of explicit from the environment.
// The secret falls back from SNOWFLAKE_PAT to SNOWFLAKE_PASSWORD. Every
// credential that is still empty is reported in missing.
func ResolveCredentials(explicit Credentials, lookup LookupFunc) (Credentials, []string) {
	if lookup == nil {
		lookup = OSLookup
	}
	creds := explicit
	if creds.Account == "" {
		creds.Account = lookupTrimmed(lookup, EnvAccount)
	}
	if creds.User == "" {
		creds.User = lookupTrimmed(lookup, EnvUser)
	}
	if creds.Secret == "" {
		creds.Secret = lookupTrimmed(lookup, EnvPAT)
	}
	if creds.Secret == "" {
		creds.Secret = lookupTrimmed(lookup, EnvPassword)
	}

	var missing []string
	if creds.Account == "" {
		missing = append(missing, MissingAccount)
	}
	if creds.User == "" {
		missing = append(missing, MissingUser)
	}
	if creds.Secret == "" {
		missing = append(missing, MissingPassword)
	}
	return creds, missing
}

// Options are session settings applied to every connection.
type Options struct {
	Warehouse    string            `yaml:"warehouse"`
	Role         string            `yaml:"role"`
	Database     string            `yaml:"database"`
	Schema       string            `yaml:"schema"`
	LoginTimeout time.Duration     `yaml:"login_timeout"`
	Params       map[string]string `yaml:"params"`
}

// LoadOptions reads options from the YAML file at path, if any, and then
// applies environment overrides.
func LoadOptions(path string, lookup LookupFunc) (Options, error) {
	if lookup == nil {
		lookup = OSLookup
	}
	var opts Options
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Options{}, fmt.Errorf("failed to read options file: %w", err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Options{}, fmt.Errorf("failed to parse options file %s: %w", path, err)
		}
	}

	applyString(lookup, EnvWarehouse, &opts.Warehouse)
	applyString(lookup, EnvRole, &opts.Role)
	applyString(lookup, EnvDatabase, &opts.Database)
	applyString(lookup, EnvSchema, &opts.Schema)
	if raw, ok := lookup(EnvLoginTimeout); ok {
		seconds, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || seconds < 0 {
			return Options{}, fmt.Errorf("invalid %s: %q", EnvLoginTimeout, raw)
		}
		opts.LoginTimeout = time.Duration(seconds) * time.Second
	}
	if opts.LoginTimeout == 0 {
		opts.LoginTimeout = DefaultLoginTimeout * time.Second
	}
	return opts, nil
}

// AllowedTokens parses the comma separated MCP_ALLOWED_TOKENS value.
func AllowedTokens(lookup LookupFunc) []string {
	if lookup == nil {
		lookup = OSLookup
	}
	raw, ok := lookup(EnvAllowedTokens)
	if !ok {
		return nil
	}
	var tokens []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func applyString(lookup LookupFunc, key string, dst *string) {
	if value := lookupTrimmed(lookup, key); value != "" {
		*dst = value
	}
}

func lookupTrimmed(lookup LookupFunc, key string) string {
	raw, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}
