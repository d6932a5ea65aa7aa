package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/synthrec/synthrec"
	"github.com/synthrec/synthrec/internal/deliver"
	"github.com/synthrec/synthrec/internal/store"
)

var (
	inputFile  string
	formatHint string
	dbURL      string
	mysqlURL   string
	sqlitePath string
	count      int
	seed       int64
	enhance    bool
	outputFile string
	outputDir  string
	outFormat  string
	tables     string
	excluded   string
	deliverURL string
	batchSize  int
	storePath  string
	schemaName string
	owner      string
	saveSchema bool
)

var rootCmd = &cobra.Command{
	Use:   "synthrec",
	Short: "Generate realistic sample records from schema definitions",
	Long: `Synthrec parses schemas (JSON Schema, SQL DDL, document-model path
descriptors, or TypeScript-style interfaces) or extracts them from a live
database, then generates realistic sample records and exports them as JSON,
CSV, or SQL INSERT statements.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Schema file to parse ('-' for stdin)")
	rootCmd.Flags().StringVarP(&formatHint, "format", "f", "", "Input format: jsonschema, ddl, document, or interface (default: auto-detect)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().IntVarP(&count, "count", "n", 10, "Number of records to generate")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible output")
	rootCmd.Flags().BoolVar(&enhance, "enhance", false, "Infer formats and bounds from field names")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-collection output")
	rootCmd.Flags().StringVar(&outFormat, "out-format", "json", "Output format: json, csv, or sql")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVar(&excluded, "exclude-tables", "", "Tables to skip (comma-separated)")
	rootCmd.Flags().StringVar(&deliverURL, "deliver-url", "", "POST generated records to this endpoint")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Records per delivery request (default: 100)")
	rootCmd.Flags().StringVar(&storePath, "store", "", "SQLite schema store path")
	rootCmd.Flags().StringVar(&schemaName, "schema-name", "", "Name for saving to or loading from the store")
	rootCmd.Flags().StringVar(&owner, "owner", "default", "Store owner scope")
	rootCmd.Flags().BoolVar(&saveSchema, "save", false, "Save the parsed schema to the store")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := validateSourceFlags(inputFile, dbURL, mysqlURL, sqlitePath, storePath, schemaName); err != nil {
		return err
	}
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	var seedPtr *int64
	if cmd.Flags().Changed("seed") {
		seedPtr = &seed
	}

	var st *store.Store
	if storePath != "" {
		var err error
		st, err = store.Open(storePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close store: %v\n", err)
			}
		}()
	}

	// Database mode generates every table plus its foreign-key wiring.
	if dbURL != "" || mysqlURL != "" || sqlitePath != "" {
		return runDatabase(ctx, st, seedPtr)
	}

	s, err := resolveSchema(ctx, st)
	if err != nil {
		return err
	}

	records, err := synthrec.GenerateRecords(s, &synthrec.GenerateOptions{Count: count, Seed: seedPtr})
	if err != nil {
		return fmt.Errorf("failed to generate records: %w", err)
	}

	if st != nil && schemaName != "" {
		if err := st.RecordGeneration(ctx, owner, schemaName, count, seedPtr); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record generation: %v\n", err)
		}
	}

	if deliverURL != "" {
		d := deliver.New(nil)
		if err := d.Deliver(ctx, deliverURL, records, deliver.Options{BatchSize: batchSize}); err != nil {
			return fmt.Errorf("failed to deliver records: %w", err)
		}
	}

	name := schemaName
	if name == "" {
		name = s.Title
	}
	return writeRecords(name, records)
}

// resolveSchema loads the schema from --input or from the store.
func resolveSchema(ctx context.Context, st *store.Store) (*synthrec.Schema, error) {
	if inputFile == "" {
		saved, err := st.GetSchema(ctx, owner, schemaName)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema %s: %w", schemaName, err)
		}
		return saved.Schema, nil
	}

	raw, err := readInput(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	s, err := synthrec.ParseSchema(string(raw), formatHint, &synthrec.ParseOptions{Enhance: enhance})
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	if saveSchema {
		if st == nil {
			return nil, fmt.Errorf("--save requires --store")
		}
		name := schemaName
		if name == "" {
			name = s.Title
		}
		if name == "" {
			return nil, fmt.Errorf("--save requires --schema-name for an untitled schema")
		}
		if err := st.SaveSchema(ctx, owner, name, formatHint, s); err != nil {
			return nil, fmt.Errorf("failed to save schema: %w", err)
		}
	}

	return s, nil
}

func runDatabase(ctx context.Context, st *store.Store, seedPtr *int64) error {
	source, err := synthrec.ExtractSchemas(ctx, databaseURL(), &synthrec.ExtractOptions{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(excluded),
	})
	if err != nil {
		return fmt.Errorf("failed to extract schemas: %w", err)
	}

	opts := make(map[string]synthrec.GenerateOptions, len(source.Schemas))
	for name := range source.Schemas {
		opts[name] = synthrec.GenerateOptions{Count: count, Seed: seedPtr}
	}

	collections, err := synthrec.GenerateRelatedRecords(source.Schemas, source.Relations, opts)
	if err != nil {
		return fmt.Errorf("failed to generate records: %w", err)
	}

	if st != nil {
		for name := range collections {
			if err := st.RecordGeneration(ctx, owner, name, count, seedPtr); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to record generation: %v\n", err)
			}
		}
	}

	if outputDir != "" {
		return synthrec.ExportCollections(collections, outFormat, outputDir)
	}

	writer, closeWriter, err := openOutput()
	if err != nil {
		return err
	}
	defer closeWriter()

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := synthrec.ExportRecords(name, collections[name], outFormat, writer); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}

func databaseURL() string {
	switch {
	case dbURL != "":
		return dbURL
	case mysqlURL != "":
		if strings.HasPrefix(mysqlURL, "mysql://") {
			return mysqlURL
		}
		return "mysql://" + mysqlURL
	default:
		return "sqlite://" + sqlitePath
	}
}

func writeRecords(name string, records []synthrec.Record) error {
	if outputDir != "" {
		if name == "" {
			name = "records"
		}
		return synthrec.ExportCollections(map[string][]synthrec.Record{name: records}, outFormat, outputDir)
	}

	writer, closeWriter, err := openOutput()
	if err != nil {
		return err
	}
	defer closeWriter()
	return synthrec.ExportRecords(name, records, outFormat, writer)
}

func openOutput() (io.Writer, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
		}
	}, nil
}

// validateSourceFlags checks that exactly one schema source is configured.
func validateSourceFlags(input, pgURL, myURL, sqlite, storeFile, storedName string) error {
	sources := 0
	if input != "" {
		sources++
	}
	if pgURL != "" {
		sources++
	}
	if myURL != "" {
		sources++
	}
	if sqlite != "" {
		sources++
	}
	if input == "" && pgURL == "" && myURL == "" && sqlite == "" && storeFile != "" && storedName != "" {
		sources++
	}
	if sources == 0 {
		return fmt.Errorf("a schema source is required: --input, --db-url, --mysql-url, --sqlite, or --store with --schema-name")
	}
	if sources > 1 {
		return fmt.Errorf("only one of --input, --db-url, --mysql-url, or --sqlite can be specified")
	}
	return nil
}

func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
