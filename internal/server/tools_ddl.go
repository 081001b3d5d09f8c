package server

import (
	"errors"

	"github.com/malbeclabs/snowflake-mcp/internal/response"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

type ExecuteDDLInput struct {
	DDLStatement string `json:"ddl_statement" jsonschema:"DDL statement to execute as given"`
}

type CreateDatabaseInput struct {
	DatabaseName string `json:"database_name"`
	IfNotExists  bool   `json:"if_not_exists,omitempty"`
}

type CreateSchemaInput struct {
	DatabaseName string `json:"database_name"`
	SchemaName   string `json:"schema_name"`
	IfNotExists  bool   `json:"if_not_exists,omitempty"`
}

type CreateTableInput struct {
	DatabaseName string                `json:"database_name"`
	SchemaName   string                `json:"schema_name"`
	TableName    string                `json:"table_name"`
	Columns      []snowflake.ColumnDef `json:"columns" jsonschema:"column definitions in table order"`
	IfNotExists  bool                  `json:"if_not_exists,omitempty"`
}

type DropObjectInput struct {
	ObjectType string `json:"object_type" jsonschema:"object type such as DATABASE, SCHEMA, TABLE or VIEW"`
	ObjectName string `json:"object_name"`
	Cascade    bool   `json:"cascade"`
}

type AlterTableInput struct {
	TableName    string `json:"table_name" jsonschema:"fully qualified database.schema.table"`
	AlterType    string `json:"alter_type" jsonschema:"one of ADD, DROP, RENAME, ALTER or MODIFY"`
	ColumnName   string `json:"column_name,omitempty"`
	NewName      string `json:"new_name,omitempty"`
	DataType     string `json:"data_type,omitempty"`
	DefaultValue string `json:"default_value,omitempty" jsonschema:"default expression, written as SQL"`
	NotNull      *bool  `json:"not_null,omitempty"`
}

type AlterSchemaInput struct {
	SchemaName  string `json:"schema_name" jsonschema:"qualified database.schema"`
	NewName     string `json:"new_name,omitempty"`
	NewDatabase string `json:"new_database,omitempty"`
}

type AlterDatabaseInput struct {
	DatabaseName string `json:"database_name"`
	NewName      string `json:"new_name"`
}

func (s *Server) registerDDLTools() error {
	return errors.Join(
		addTool(s, "execute_ddl_statement", "Execute an arbitrary DDL statement.",
			statementTool(s, func(in ExecuteDDLInput) (snowflake.Statement, error) {
				return snowflake.BuildRawDDL(in.DDLStatement)
			}, response.NewDDL)),
		addTool(s, "create_database", "Create a database.",
			statementTool(s, func(in CreateDatabaseInput) (snowflake.Statement, error) {
				return snowflake.BuildCreateDatabase(snowflake.CreateDatabaseRequest{
					Name:        in.DatabaseName,
					IfNotExists: in.IfNotExists,
				})
			}, response.NewDDL)),
		addTool(s, "create_schema", "Create a schema in a database.",
			statementTool(s, func(in CreateSchemaInput) (snowflake.Statement, error) {
				return snowflake.BuildCreateSchema(snowflake.CreateSchemaRequest{
					Database:    in.DatabaseName,
					Schema:      in.SchemaName,
					IfNotExists: in.IfNotExists,
				})
			}, response.NewDDL)),
		addTool(s, "create_table", "Create a table from a list of column names and types.",
			statementTool(s, func(in CreateTableInput) (snowflake.Statement, error) {
				return snowflake.BuildCreateTable(snowflake.CreateTableRequest{
					Database:    in.DatabaseName,
					Schema:      in.SchemaName,
					Table:       in.TableName,
					Columns:     in.Columns,
					IfNotExists: in.IfNotExists,
				})
			}, response.NewDDL)),
		addTool(s, "drop_database_object", "Drop a database object, optionally with CASCADE.",
			statementTool(s, func(in DropObjectInput) (snowflake.Statement, error) {
				return snowflake.BuildDrop(snowflake.DropRequest{
					ObjectType: in.ObjectType,
					Name:       in.ObjectName,
					Cascade:    in.Cascade,
				})
			}, response.NewDDL)),
		addTool(s, "alter_table", "Add, drop, rename or modify a column, or rename a table.",
			statementTool(s, func(in AlterTableInput) (snowflake.Statement, error) {
				return snowflake.BuildAlterTable(snowflake.AlterTableRequest{
					Table:     in.TableName,
					AlterType: in.AlterType,
					Column:    in.ColumnName,
					NewName:   in.NewName,
					DataType:  in.DataType,
					Default:   in.DefaultValue,
					NotNull:   in.NotNull,
				})
			}, response.NewDDL)),
		addTool(s, "alter_schema", "Rename a schema or move it to another database.",
			statementTool(s, func(in AlterSchemaInput) (snowflake.Statement, error) {
				return snowflake.BuildAlterSchema(snowflake.AlterSchemaRequest{
					Schema:      in.SchemaName,
					NewName:     in.NewName,
					NewDatabase: in.NewDatabase,
				})
			}, response.NewDDL)),
		addTool(s, "alter_database", "Rename a database.",
			statementTool(s, func(in AlterDatabaseInput) (snowflake.Statement, error) {
				return snowflake.BuildAlterDatabase(snowflake.AlterDatabaseRequest{
					Name:    in.DatabaseName,
					NewName: in.NewName,
				})
			}, response.NewDDL)),
	)
}
