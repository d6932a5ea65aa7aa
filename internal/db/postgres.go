package db

import (
	"context"
	"fmt"

	"github.com/synthrec/synthrec/internal/generator"
	"github.com/synthrec/synthrec/internal/schema"
)

// PostgresExtractor reads table metadata from information_schema and maps it
// into the canonical field model.
type PostgresExtractor struct {
	client     *PostgresClient
	schemaName string
}

// NewPostgresExtractor creates an extractor over the given schema name.
func NewPostgresExtractor(client *PostgresClient, schemaName string) *PostgresExtractor {
	return &PostgresExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// Extract builds one canonical schema per table plus the foreign-key
// relations between them. If tables is empty, all base tables are used.
func (e *PostgresExtractor) Extract(ctx context.Context, tables []string) (*Source, error) {
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

func (e *PostgresExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.conn.Query(ctx, query, e.schemaName)
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

func (e *PostgresExtractor) extractTable(ctx context.Context, tableName string) (*schema.Schema, []generator.Relation, error) {
	tableSchema := &schema.Schema{
		Title:  tableName,
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	if err := e.extractColumns(ctx, tableName, tableSchema); err != nil {
		return nil, nil, fmt.Errorf("failed to extract columns: %w", err)
	}

	if err := e.markPrimaryKey(ctx, tableName, tableSchema); err != nil {
		return nil, nil, fmt.Errorf("failed to extract primary key: %w", err)
	}

	relations, err := e.extractRelations(ctx, tableName, tableSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract relations: %w", err)
	}

	return tableSchema, relations, nil
}

func (e *PostgresExtractor) extractColumns(ctx context.Context, tableName string, tableSchema *schema.Schema) error {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			CASE WHEN EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.constraint_column_usage ccu
					ON tc.constraint_name = ccu.constraint_name
					AND tc.table_schema = ccu.table_schema
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND ccu.column_name = c.column_name
			) THEN true ELSE false END as is_unique
		FROM information_schema.columns c
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := e.client.conn.Query(ctx, query, e.schemaName, tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pendingEnum struct {
		column  string
		udtName string
	}
	var pendingEnums []pendingEnum

	for rows.Next() {
		var (
			name, dataType, udtName, nullable string
			defaultVal                        *string
			charMaxLength                     *int
			isUnique                          bool
		)
		if err := rows.Scan(&name, &dataType, &udtName, &nullable, &defaultVal, &charMaxLength, &isUnique); err != nil {
			return err
		}

		vendorType := dataType
		if dataType == "USER-DEFINED" {
			vendorType = udtName
			pendingEnums = append(pendingEnums, pendingEnum{column: name, udtName: udtName})
		} else if charMaxLength != nil {
			vendorType = fmt.Sprintf("%s(%d)", dataType, *charMaxLength)
		}

		tableSchema.Fields[name] = columnField(name, vendorType, nullable == "YES", defaultVal, isUnique, nil)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// USER-DEFINED types are usually enums; resolve their labels.
	for _, pending := range pendingEnums {
		values, err := e.enumLabels(ctx, pending.udtName)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			field := tableSchema.Fields[pending.column]
			field.Kind = schema.KindEnum
			field.Values = values
			tableSchema.Fields[pending.column] = field
		}
	}

	return nil
}

func (e *PostgresExtractor) enumLabels(ctx context.Context, typeName string) ([]string, error) {
	query := `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE n.nspname = $1 AND t.typname = $2
		ORDER BY e.enumsortorder
	`

	rows, err := e.client.conn.Query(ctx, query, e.schemaName, typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

func (e *PostgresExtractor) markPrimaryKey(ctx context.Context, tableName string, tableSchema *schema.Schema) error {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = $1
			AND table_name = $2
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.table_constraints
				WHERE table_schema = $1
					AND table_name = $2
					AND constraint_type = 'PRIMARY KEY'
			)
		ORDER BY ordinal_position
	`

	rows, err := e.client.conn.Query(ctx, query, e.schemaName, tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return err
		}
		if field, ok := tableSchema.Fields[colName]; ok {
			field.PrimaryKey = true
			field.Required = true
			tableSchema.Fields[colName] = field
		}
	}

	return rows.Err()
}

func (e *PostgresExtractor) extractRelations(ctx context.Context, tableName string, tableSchema *schema.Schema) ([]generator.Relation, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name AS foreign_table_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.client.conn.Query(ctx, query, e.schemaName, tableName)
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

// foreignKeyRelation records a many-to-one relation for a foreign-key
// column and downgrades the column itself to a reference field, so that
// unrelated generation still produces a plausible identifier there.
func foreignKeyRelation(tableName, targetTable, column string, tableSchema *schema.Schema) generator.Relation {
	if field, ok := tableSchema.Fields[column]; ok {
		field.Kind = schema.KindReference
		field.Format = ""
		tableSchema.Fields[column] = field
	}
	return generator.Relation{
		From:       tableName,
		To:         targetTable,
		Kind:       generator.RelationManyToOne,
		ForeignKey: column,
	}
}
