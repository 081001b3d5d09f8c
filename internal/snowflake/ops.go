package snowflake

import (
	"strconv"
	"strings"
)

const (
	OpShow           = "SHOW"
	OpDescribe       = "DESCRIBE"
	OpUse            = "USE"
	OpAlterWarehouse = "ALTER WAREHOUSE"
	OpGrant          = "GRANT"
	OpRevoke         = "REVOKE"
	OpQuery          = "QUERY"
	OpTestConnection = "TEST CONNECTION"
)

// ConnectionTestSQL reports the session identity and server version.
const ConnectionTestSQL = "SELECT CURRENT_USER() AS user, CURRENT_ACCOUNT() AS account, CURRENT_REGION() AS region, " +
	"CURRENT_TIMESTAMP() AS timestamp, CURRENT_VERSION() AS version"

// ShowRequest lists objects of a type, optionally filtered by a LIKE pattern.
type ShowRequest struct {
	ObjectType string
	Pattern    string
}

// BuildShow emits SHOW <type> [LIKE 'pattern'].
func BuildShow(r ShowRequest) (Statement, error) {
	if err := requireText(KindOperations, OpShow, "object_type", r.ObjectType); err != nil {
		return Statement{}, err
	}
	objectType := upper(r.ObjectType)
	sql := "SHOW " + objectType
	if r.Pattern != "" {
		sql += " LIKE " + Format(Text(r.Pattern))
	}
	return Statement{Kind: KindOperations, Op: OpShow, Target: objectType, SQL: sql}, nil
}

// DescribeRequest names the object to describe; ObjectType is optional.
type DescribeRequest struct {
	ObjectType string
	Name       string
}

// BuildDescribe emits DESCRIBE [type] name.
func BuildDescribe(r DescribeRequest) (Statement, error) {
	if err := requireText(KindOperations, OpDescribe, "object_name", r.Name); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Name)
	sql := "DESCRIBE "
	if t := upper(r.ObjectType); t != "" {
		sql += t + " "
	}
	return Statement{Kind: KindOperations, Op: OpDescribe, Target: name, SQL: sql + name}, nil
}

var contextTypes = map[string]bool{
	"DATABASE":  true,
	"SCHEMA":    true,
	"WAREHOUSE": true,
	"ROLE":      true,
}

// UseRequest switches one part of the session context.
type UseRequest struct {
	ContextType string
	Name        string
}

// BuildUse emits USE DATABASE, SCHEMA, WAREHOUSE or ROLE.
func BuildUse(r UseRequest) (Statement, error) {
	contextType := upper(r.ContextType)
	if !contextTypes[contextType] {
		return Statement{}, invalid(KindOperations, OpUse, "context_type", r.ContextType,
			"must be one of DATABASE, SCHEMA, WAREHOUSE or ROLE")
	}
	if err := requireText(KindOperations, OpUse, "context_name", r.Name); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Name)
	return Statement{Kind: KindOperations, Op: OpUse, Target: name, SQL: "USE " + contextType + " " + name}, nil
}

// AlterWarehouseRequest sets any of size, auto suspend and auto resume.
type AlterWarehouseRequest struct {
	Name        string
	Size        string
	AutoSuspend *int
	AutoResume  *bool
}

// BuildAlterWarehouse emits ALTER WAREHOUSE ... SET with the given parameters.
func BuildAlterWarehouse(r AlterWarehouseRequest) (Statement, error) {
	if err := requireText(KindOperations, OpAlterWarehouse, "warehouse_name", r.Name); err != nil {
		return Statement{}, err
	}
	var params []string
	if size := upper(r.Size); size != "" {
		params = append(params, "WAREHOUSE_SIZE = "+size)
	}
	if r.AutoSuspend != nil {
		if *r.AutoSuspend < 0 {
			return Statement{}, invalid(KindOperations, OpAlterWarehouse, "auto_suspend",
				strconv.Itoa(*r.AutoSuspend), "auto_suspend must not be negative")
		}
		params = append(params, "AUTO_SUSPEND = "+strconv.Itoa(*r.AutoSuspend))
	}
	if r.AutoResume != nil {
		params = append(params, "AUTO_RESUME = "+Format(Bool(*r.AutoResume)))
	}
	if len(params) == 0 {
		return Statement{}, invalid(KindOperations, OpAlterWarehouse, "size", "", "No warehouse parameters specified")
	}
	name := strings.TrimSpace(r.Name)
	return Statement{
		Kind:   KindOperations,
		Op:     OpAlterWarehouse,
		Target: name,
		SQL:    "ALTER WAREHOUSE " + name + " SET " + strings.Join(params, " "),
	}, nil
}

// PrivilegeRequest is shared by GRANT and REVOKE. Grantee is the TO side of
// a grant and the FROM side of a revoke.
type PrivilegeRequest struct {
	Privileges  []string
	OnType      string
	OnName      string
	GranteeType string
	GranteeName string
}

// BuildGrant emits GRANT ... ON ... TO.
func BuildGrant(r PrivilegeRequest) (Statement, error) {
	return buildPrivilege(OpGrant, "TO", "to", r)
}

// BuildRevoke emits REVOKE ... ON ... FROM.
func BuildRevoke(r PrivilegeRequest) (Statement, error) {
	return buildPrivilege(OpRevoke, "FROM", "from", r)
}

func buildPrivilege(op, preposition, prefix string, r PrivilegeRequest) (Statement, error) {
	var privileges []string
	for _, p := range r.Privileges {
		if p = upper(p); p != "" {
			privileges = append(privileges, p)
		}
	}
	if len(privileges) == 0 {
		return Statement{}, invalid(KindOperations, op, "privileges", "", "at least one privilege is required")
	}
	for _, f := range []struct{ field, value string }{
		{"on_type", r.OnType},
		{"on_name", r.OnName},
		{prefix + "_type", r.GranteeType},
		{prefix + "_name", r.GranteeName},
	} {
		if err := requireText(KindOperations, op, f.field, f.value); err != nil {
			return Statement{}, err
		}
	}
	onName := strings.TrimSpace(r.OnName)
	sql := op + " " + strings.Join(privileges, ", ") +
		" ON " + upper(r.OnType) + " " + onName +
		" " + preposition + " " + upper(r.GranteeType) + " " + strings.TrimSpace(r.GranteeName)
	return Statement{Kind: KindOperations, Op: op, Target: onName, SQL: sql}, nil
}

// SplitPrivileges accepts a comma separated privilege list.
func SplitPrivileges(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildRawQuery passes query through unchanged.
func BuildRawQuery(query string) (Statement, error) {
	if err := requireText(KindOperations, OpQuery, "query", query); err != nil {
		return Statement{}, err
	}
	return Statement{Kind: KindOperations, Op: OpQuery, SQL: query}, nil
}

// BuildConnectionTest returns the session identity query.
func BuildConnectionTest() Statement {
	return Statement{Kind: KindOperations, Op: OpTestConnection, SQL: ConnectionTestSQL}
}
