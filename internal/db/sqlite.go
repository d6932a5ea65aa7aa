package db

import (
	"context"
	"fmt"

	"github.com/synthrec/synthrec/internal/generator"
	"github.com/synthrec/synthrec/internal/schema"
)

// SQLiteExtractor reads table metadata through the PRAGMA interface and
// maps it into the canonical field model.
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates an extractor over the open database file.
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{client: client}
}

// Extract builds one canonical schema per table plus the foreign-key
// relations between them. If tables is empty, all user tables are used.
func (e *SQLiteExtractor) Extract(ctx context.Context, tables []string) (*Source, error) {
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

func (e *SQLiteExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
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

func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Schema, []generator.Relation, error) {
	tableSchema := &schema.Schema{
		Title:  tableName,
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	if err := e.extractColumns(ctx, tableName, tableSchema); err != nil {
		return nil, nil, fmt.Errorf("failed to extract columns: %w", err)
	}

	if err := e.markUniqueColumns(ctx, tableName, tableSchema); err != nil {
		return nil, nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	relations, err := e.extractRelations(ctx, tableName, tableSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract relations: %w", err)
	}

	return tableSchema, relations, nil
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string, tableSchema *schema.Schema) error {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := e.client.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			defaultVal       *string
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return err
		}

		field := columnField(name, colType, notNull == 0, defaultVal, false, nil)
		if pk > 0 {
			field.PrimaryKey = true
			field.Required = true
		}
		tableSchema.Fields[name] = field
	}

	return rows.Err()
}

// markUniqueColumns flags columns covered by a single-column unique index.
func (e *SQLiteExtractor) markUniqueColumns(ctx context.Context, tableName string, tableSchema *schema.Schema) error {
	rows, err := e.client.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", tableName))
	if err != nil {
		return err
	}

	var uniqueIndexes []string
	for rows.Next() {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return err
		}
		if unique == 1 {
			uniqueIndexes = append(uniqueIndexes, name)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, indexName := range uniqueIndexes {
		columns, err := e.indexColumns(ctx, indexName)
		if err != nil {
			return err
		}
		if len(columns) != 1 {
			continue
		}
		if field, ok := tableSchema.Fields[columns[0]]; ok {
			field.Unique = true
			tableSchema.Fields[columns[0]] = field
		}
	}

	return nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := e.client.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", indexName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name string
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}

func (e *SQLiteExtractor) extractRelations(ctx context.Context, tableName string, tableSchema *schema.Schema) ([]generator.Relation, error) {
	rows, err := e.client.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []generator.Relation
	for rows.Next() {
		var (
			id, seq                   int
			table, from               string
			to                        *string
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		relations = append(relations, foreignKeyRelation(tableName, table, from, tableSchema))
	}

	return relations, rows.Err()
}
