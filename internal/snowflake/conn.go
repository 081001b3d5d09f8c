package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/malbeclabs/snowflake-mcp/config"
)

// Connector opens a fresh Snowflake session.
type Connector interface {
	Connect(ctx context.Context, creds config.Credentials, opts config.Options) (Conn, error)
}

// Conn is a single session; it runs one statement and is then closed.
type Conn interface {
	Execute(ctx context.Context, sql string) (*RowSet, error)
	Close() error
}

// RowSet is everything a statement returned. Rows hold scanned cells with
// []byte converted to string.
type RowSet struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}

// OpenFunc returns a *sql.DB for the given credentials.
type OpenFunc func(creds config.Credentials, opts config.Options) (*sql.DB, error)

// SQLConnector adapts database/sql to Connector.
type SQLConnector struct {
	open OpenFunc
}

// NewConnector returns a Connector backed by the gosnowflake driver.
func NewConnector(application string) *SQLConnector {
	return NewSQLConnector(func(creds config.Credentials, opts config.Options) (*sql.DB, error) {
		return sql.OpenDB(gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, DriverConfig(application, creds, opts))), nil
	})
}

// NewSQLConnector returns a Connector that opens databases with open.
func NewSQLConnector(open OpenFunc) *SQLConnector {
	return &SQLConnector{open: open}
}

// DriverConfig maps credentials and options onto a gosnowflake config. The
// secret is sent as the password, which Snowflake accepts for both passwords
// and programmatic access tokens.
func DriverConfig(application string, creds config.Credentials, opts config.Options) gosnowflake.Config {
	cfg := gosnowflake.Config{
		Account:      creds.Account,
		User:         creds.User,
		Password:     creds.Secret,
		Warehouse:    opts.Warehouse,
		Role:         opts.Role,
		Database:     opts.Database,
		Schema:       opts.Schema,
		LoginTimeout: opts.LoginTimeout,
		Application:  application,
	}
	if len(opts.Params) > 0 {
		cfg.Params = make(map[string]*string, len(opts.Params))
		for k, v := range opts.Params {
			cfg.Params[k] = &v
		}
	}
	return cfg
}

// Connect opens a single-connection database and checks out its session.
func (c *SQLConnector) Connect(ctx context.Context, creds config.Credentials, opts config.Options) (Conn, error) {
	db, err := c.open(creds, opts)
	if err != nil {
		return nil, &ConnectionError{Message: "failed to open snowflake connection", Err: err}
	}
	db.SetMaxOpenConns(1)
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Message: "failed to connect to snowflake", Err: err}
	}
	return &sqlConn{db: db, conn: conn}, nil
}

type sqlConn struct {
	db   *sql.DB
	conn *sql.Conn
}

func (c *sqlConn) Execute(ctx context.Context, query string) (*RowSet, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	rs := &RowSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	rs.RowsAffected = rowsAffected(rs)
	return rs, nil
}

func (c *sqlConn) Close() error {
	return errors.Join(c.conn.Close(), c.db.Close())
}

// rowsAffected sums the "number of rows ..." columns Snowflake returns for
// DML statements. Other "number of ..." columns, such as multi-joined rows on
// UPDATE, are not counted. Any other result reports its row count.
func rowsAffected(rs *RowSet) int64 {
	if len(rs.Columns) == 0 || len(rs.Rows) != 1 {
		return int64(len(rs.Rows))
	}
	var total int64
	matched := false
	for i, col := range rs.Columns {
		if !strings.HasPrefix(strings.ToLower(col), "number of rows") {
			continue
		}
		n, ok := toInt64(rs.Rows[0][i])
		if !ok {
			return int64(len(rs.Rows))
		}
		total += n
		matched = true
	}
	if !matched {
		return int64(len(rs.Rows))
	}
	return total
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// snowflakeCode extracts the Snowflake error number from err, if any.
func snowflakeCode(err error) int {
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		return sfErr.Number
	}
	return 0
}
