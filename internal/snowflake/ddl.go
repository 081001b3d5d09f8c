package snowflake

import (
	"strings"
)

const (
	OpCreateDatabase = "CREATE DATABASE"
	OpCreateSchema   = "CREATE SCHEMA"
	OpCreateTable    = "CREATE TABLE"
	OpDrop           = "DROP"
	OpAlterTable     = "ALTER TABLE"
	OpAlterSchema    = "ALTER SCHEMA"
	OpAlterDatabase  = "ALTER DATABASE"
	OpStatement      = "STATEMENT"
)

func ifNotExists(b bool) string {
	if b {
		return "IF NOT EXISTS "
	}
	return ""
}

// CreateDatabaseRequest names the database to create.
type CreateDatabaseRequest struct {
	Name        string
	IfNotExists bool
}

// BuildCreateDatabase emits CREATE DATABASE [IF NOT EXISTS] name.
func BuildCreateDatabase(r CreateDatabaseRequest) (Statement, error) {
	if err := requireText(KindDDL, OpCreateDatabase, "database_name", r.Name); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Name)
	return Statement{
		Kind:   KindDDL,
		Op:     OpCreateDatabase,
		Target: name,
		SQL:    "CREATE DATABASE " + ifNotExists(r.IfNotExists) + name,
	}, nil
}

// CreateSchemaRequest names a schema inside an existing database.
type CreateSchemaRequest struct {
	Database    string
	Schema      string
	IfNotExists bool
}

// BuildCreateSchema emits CREATE SCHEMA [IF NOT EXISTS] database.schema.
func BuildCreateSchema(r CreateSchemaRequest) (Statement, error) {
	if err := requireText(KindDDL, OpCreateSchema, "database_name", r.Database); err != nil {
		return Statement{}, err
	}
	if err := requireText(KindDDL, OpCreateSchema, "schema_name", r.Schema); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Database) + "." + strings.TrimSpace(r.Schema)
	return Statement{
		Kind:   KindDDL,
		Op:     OpCreateSchema,
		Target: name,
		SQL:    "CREATE SCHEMA " + ifNotExists(r.IfNotExists) + name,
	}, nil
}

// ColumnDef is one column of a new table.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type" jsonschema:"Snowflake data type, e.g. NUMBER(38,0) or VARCHAR"`
}

// CreateTableRequest describes a table and its columns in order.
type CreateTableRequest struct {
	Database    string
	Schema      string
	Table       string
	Columns     []ColumnDef
	IfNotExists bool
}

// BuildCreateTable emits CREATE TABLE with the column list in request order.
func BuildCreateTable(r CreateTableRequest) (Statement, error) {
	for _, f := range []struct{ field, value string }{
		{"database_name", r.Database},
		{"schema_name", r.Schema},
		{"table_name", r.Table},
	} {
		if err := requireText(KindDDL, OpCreateTable, f.field, f.value); err != nil {
			return Statement{}, err
		}
	}
	if len(r.Columns) == 0 {
		return Statement{}, invalid(KindDDL, OpCreateTable, "columns", "", "at least one column is required")
	}
	defs := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Type) == "" {
			return Statement{}, invalid(KindDDL, OpCreateTable, "columns", c.Name, "every column needs a name and a type")
		}
		defs[i] = strings.TrimSpace(c.Name) + " " + strings.TrimSpace(c.Type)
	}
	name := strings.TrimSpace(r.Database) + "." + strings.TrimSpace(r.Schema) + "." + strings.TrimSpace(r.Table)
	return Statement{
		Kind:   KindDDL,
		Op:     OpCreateTable,
		Target: name,
		SQL:    "CREATE TABLE " + ifNotExists(r.IfNotExists) + name + " (" + strings.Join(defs, ", ") + ")",
	}, nil
}

// DropRequest drops any object type by name.
type DropRequest struct {
	ObjectType string
	Name       string
	Cascade    bool
}

// BuildDrop emits DROP <type> name, appending CASCADE when asked.
func BuildDrop(r DropRequest) (Statement, error) {
	if err := requireText(KindDDL, OpDrop, "object_type", r.ObjectType); err != nil {
		return Statement{}, err
	}
	if err := requireText(KindDDL, OpDrop, "object_name", r.Name); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Name)
	sql := "DROP " + upper(r.ObjectType) + " " + name
	if r.Cascade {
		sql += " CASCADE"
	}
	return Statement{Kind: KindDDL, Op: OpDrop + " " + upper(r.ObjectType), Target: name, SQL: sql}, nil
}

// AlterTableRequest describes one alteration. AlterType is one of ADD, DROP,
// RENAME, ALTER or MODIFY.
type AlterTableRequest struct {
	Table     string
	AlterType string
	Column    string
	NewName   string
	DataType  string
	Default   string
	NotNull   *bool
}

// BuildAlterTable emits one ALTER TABLE statement for the requested alteration.
func BuildAlterTable(r AlterTableRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDDL, OpAlterTable, "table_name", r.Table); err != nil {
		return Statement{}, err
	}
	alterType := upper(r.AlterType)
	op := OpAlterTable + " " + alterType
	column := strings.TrimSpace(r.Column)
	prefix := "ALTER TABLE " + r.Table + " "

	var sql string
	switch alterType {
	case "ADD":
		if err := requireText(KindDDL, op, "column_name", column); err != nil {
			return Statement{}, err
		}
		if err := requireText(KindDDL, op, "data_type", r.DataType); err != nil {
			return Statement{}, err
		}
		sql = prefix + "ADD COLUMN " + column + " " + strings.TrimSpace(r.DataType)
		if d := strings.TrimSpace(r.Default); d != "" {
			sql += " DEFAULT " + d
		}
		if r.NotNull != nil && *r.NotNull {
			sql += " NOT NULL"
		}
	case "DROP":
		if err := requireText(KindDDL, op, "column_name", column); err != nil {
			return Statement{}, err
		}
		sql = prefix + "DROP COLUMN " + column
	case "RENAME":
		if err := requireText(KindDDL, op, "new_name", r.NewName); err != nil {
			return Statement{}, err
		}
		if column == "" {
			sql = prefix + "RENAME TO " + strings.TrimSpace(r.NewName)
		} else {
			sql = prefix + "RENAME COLUMN " + column + " TO " + strings.TrimSpace(r.NewName)
		}
	case "ALTER", "MODIFY":
		if err := requireText(KindDDL, op, "column_name", column); err != nil {
			return Statement{}, err
		}
		var clauses []string
		if t := strings.TrimSpace(r.DataType); t != "" {
			clauses = append(clauses, "COLUMN "+column+" SET DATA TYPE "+t)
		}
		if d := strings.TrimSpace(r.Default); d != "" {
			clauses = append(clauses, "COLUMN "+column+" SET DEFAULT "+d)
		}
		if r.NotNull != nil {
			if *r.NotNull {
				clauses = append(clauses, "COLUMN "+column+" SET NOT NULL")
			} else {
				clauses = append(clauses, "COLUMN "+column+" DROP NOT NULL")
			}
		}
		if len(clauses) == 0 {
			return Statement{}, invalid(KindDDL, op, "alter_type", r.AlterType,
				"one of data_type, default_value or not_null is required")
		}
		sql = prefix + "ALTER " + strings.Join(clauses, ", ")
	default:
		return Statement{}, invalid(KindDDL, OpAlterTable, "alter_type", r.AlterType,
			"must be one of ADD, DROP, RENAME, ALTER or MODIFY")
	}
	return Statement{Kind: KindDDL, Op: OpAlterTable, Target: r.Table, SQL: sql}, nil
}

// AlterSchemaRequest renames a database.schema, optionally moving it to
// another database.
type AlterSchemaRequest struct {
	Schema      string
	NewName     string
	NewDatabase string
}

// BuildAlterSchema emits ALTER SCHEMA ... RENAME TO database.schema.
func BuildAlterSchema(r AlterSchemaRequest) (Statement, error) {
	schema := strings.TrimSpace(r.Schema)
	if !isQualified(schema, 2) {
		return Statement{}, invalid(KindDDL, OpAlterSchema, "schema_name", r.Schema,
			"schema name must be qualified as database.schema")
	}
	newName, newDatabase := strings.TrimSpace(r.NewName), strings.TrimSpace(r.NewDatabase)
	if newName == "" && newDatabase == "" {
		return Statement{}, invalid(KindDDL, OpAlterSchema, "new_name", "",
			"new_name or new_database is required")
	}
	db, name, _ := strings.Cut(schema, ".")
	if newName != "" {
		name = newName
	}
	if newDatabase != "" {
		db = newDatabase
	}
	return Statement{
		Kind:   KindDDL,
		Op:     OpAlterSchema,
		Target: schema,
		SQL:    "ALTER SCHEMA " + schema + " RENAME TO " + db + "." + name,
	}, nil
}

// AlterDatabaseRequest renames a database.
type AlterDatabaseRequest struct {
	Name    string
	NewName string
}

// BuildAlterDatabase emits ALTER DATABASE ... RENAME TO.
func BuildAlterDatabase(r AlterDatabaseRequest) (Statement, error) {
	if err := requireText(KindDDL, OpAlterDatabase, "database_name", r.Name); err != nil {
		return Statement{}, err
	}
	if err := requireText(KindDDL, OpAlterDatabase, "new_name", r.NewName); err != nil {
		return Statement{}, err
	}
	name := strings.TrimSpace(r.Name)
	return Statement{
		Kind:   KindDDL,
		Op:     OpAlterDatabase,
		Target: name,
		SQL:    "ALTER DATABASE " + name + " RENAME TO " + strings.TrimSpace(r.NewName),
	}, nil
}

// BuildRawDDL passes statement through unchanged.
func BuildRawDDL(statement string) (Statement, error) {
	if err := requireText(KindDDL, OpStatement, "ddl_statement", statement); err != nil {
		return Statement{}, err
	}
	return Statement{Kind: KindDDL, Op: OpStatement, SQL: statement}, nil
}
