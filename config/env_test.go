package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/malbeclabs/snowflake-mcp/config"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestConfig_ResolveCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		explicit    config.Credentials
		env         map[string]string
		want        config.Credentials
		wantMissing []string
	}{
		{
			name:     "explicit values win over environment",
			explicit: config.Credentials{Account: "acct", User: "alice", Secret: "pw"},
			env: map[string]string{
				config.EnvAccount: "env-acct",
				config.EnvUser:    "env-user",
				config.EnvPAT:     "env-pat",
			},
			want: config.Credentials{Account: "acct", User: "alice", Secret: "pw"},
		},
		{
			name: "pat preferred over password",
			env: map[string]string{
				config.EnvAccount:  "env-acct",
				config.EnvUser:     "env-user",
				config.EnvPAT:      "env-pat",
				config.EnvPassword: "env-pw",
			},
			want: config.Credentials{Account: "env-acct", User: "env-user", Secret: "env-pat"},
		},
		{
			name: "password used when pat unset",
			env: map[string]string{
				config.EnvAccount:  "env-acct",
				config.EnvUser:     "env-user",
				config.EnvPassword: "env-pw",
			},
			want: config.Credentials{Account: "env-acct", User: "env-user", Secret: "env-pw"},
		},
		{
			name:        "every missing credential is reported",
			env:         map[string]string{config.EnvPAT: "  "},
			want:        config.Credentials{},
			wantMissing: []string{config.MissingAccount, config.MissingUser, config.MissingPassword},
		},
		{
			name:        "only the secret missing",
			explicit:    config.Credentials{Account: "acct"},
			env:         map[string]string{config.EnvUser: "bob"},
			want:        config.Credentials{Account: "acct", User: "bob"},
			wantMissing: []string{config.MissingPassword},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, missing := config.ResolveCredentials(test.explicit, mapLookup(test.env))
			require.Equal(t, test.want, got)
			require.Equal(t, test.wantMissing, missing)
		})
	}
}

func TestConfig_LoadOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults without file or environment", func(t *testing.T) {
		t.Parallel()
		opts, err := config.LoadOptions("", mapLookup(nil))
		require.NoError(t, err)
		require.Equal(t, config.Options{LoginTimeout: 60 * time.Second}, opts)
	})

	t.Run("file values with environment overrides", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "snowflake.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
warehouse: COMPUTE_WH
role: ANALYST
database: SALES
login_timeout: 30s
params:
  QUERY_TAG: mcp
`), 0o600))

		opts, err := config.LoadOptions(path, mapLookup(map[string]string{
			config.EnvRole:   "SYSADMIN",
			config.EnvSchema: "PUBLIC",
		}))
		require.NoError(t, err)
		require.Equal(t, config.Options{
			Warehouse:    "COMPUTE_WH",
			Role:         "SYSADMIN",
			Database:     "SALES",
			Schema:       "PUBLIC",
			LoginTimeout: 30 * time.Second,
			Params:       map[string]string{"QUERY_TAG": "mcp"},
		}, opts)
	})

	t.Run("login timeout from environment", func(t *testing.T) {
		t.Parallel()
		opts, err := config.LoadOptions("", mapLookup(map[string]string{config.EnvLoginTimeout: "15"}))
		require.NoError(t, err)
		require.Equal(t, 15*time.Second, opts.LoginTimeout)
	})

	t.Run("invalid login timeout", func(t *testing.T) {
		t.Parallel()
		_, err := config.LoadOptions("", mapLookup(map[string]string{config.EnvLoginTimeout: "soon"}))
		require.ErrorContains(t, err, config.EnvLoginTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := config.LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"), mapLookup(nil))
		require.ErrorContains(t, err, "failed to read options file")
	})
}

func TestConfig_AllowedTokens(t *testing.T) {
	t.Parallel()

	require.Nil(t, config.AllowedTokens(mapLookup(nil)))
	require.Equal(t, []string{"a", "b"}, config.AllowedTokens(mapLookup(map[string]string{
		config.EnvAllowedTokens: " a, ,b ",
	})))
}
