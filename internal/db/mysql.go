package db

import (
	"context"
	"fmt"

	"github.com/synthrec/synthrec/internal/generator"
	"github.com/synthrec/synthrec/internal/schema"
)

// MySQLExtractor reads table metadata from information_schema and maps it
// into the canonical field model. MySQL inlines enum values and display
// widths in COLUMN_TYPE, so that column carries most of the type signal.
type MySQLExtractor struct {
	client *MySQLClient
}

// NewMySQLExtractor creates an extractor over the connection's database.
func NewMySQLExtractor(client *MySQLClient) *MySQLExtractor {
	return &MySQLExtractor{client: client}
}

// Extract builds one canonical schema per table plus the foreign-key
// relations between them. If tables is empty, all base tables are used.
func (e *MySQLExtractor) Extract(ctx context.Context, tables []string) (*Source, error) {
	tableNames, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	source := &Source{Schemas: make(map[string]*schema.Schema, len(tableNames))}

	for _, tableName := range tableNames {
		tableSchema, relations, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		source.Schemas[tableName] = tableSchema
		source.Relations = append(source.Relations, relations...)
	}

	return source, nil
}

func (e *MySQLExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string) (*schema.Schema, []generator.Relation, error) {
	tableSchema := &schema.Schema{
		Title:  tableName,
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	if err := e.extractColumns(ctx, tableName, tableSchema); err != nil {
		return nil, nil, fmt.Errorf("failed to extract columns: %w", err)
	}

	relations, err := e.extractRelations(ctx, tableName, tableSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract relations: %w", err)
	}

	return tableSchema, relations, nil
}

func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string, tableSchema *schema.Schema) error {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.column_key
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, columnType, nullable, columnKey string
			defaultVal                            *string
		)
		if err := rows.Scan(&name, &columnType, &nullable, &defaultVal, &columnKey); err != nil {
			return err
		}

		// column_key: PRI for primary key, UNI for a unique index.
		field := columnField(name, columnType, nullable == "YES", defaultVal, columnKey == "UNI", nil)
		if columnKey == "PRI" {
			field.PrimaryKey = true
			field.Required = true
		}
		tableSchema.Fields[name] = field
	}

	return rows.Err()
}

func (e *MySQLExtractor) extractRelations(ctx context.Context, tableName string, tableSchema *schema.Schema) ([]generator.Relation, error) {
	query := `
		SELECT column_name, referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position
	`

	rows, err := e.client.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []generator.Relation
	for rows.Next() {
		var column, targetTable string
		if err := rows.Scan(&column, &targetTable); err != nil {
			return nil, err
		}
		relations = append(relations, foreignKeyRelation(tableName, targetTable, column, tableSchema))
	}

	return relations, rows.Err()
}
