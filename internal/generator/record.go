package generator

import (
	"encoding/json"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/synthrec/synthrec/internal/schema"
)

// Record is one generated data row.
type Record = map[string]any

// Options controls record generation. A non-nil Seed resets the random
// stream before generation, making output reproducible for an identical
// (schema, seed, count) triple.
type Options struct {
	Count int
	Seed  *int64
}

// Relation declares a foreign-key linkage between two generated record
// collections. An empty ForeignKey defaults to "<From>Id" for one-to-many
// and "<To>Id" for many-to-one.
type Relation struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Kind       string `json:"kind"`
	ForeignKey string `json:"foreignKey,omitempty"`
}

const (
	RelationOneToMany = "one-to-many"
	RelationManyToOne = "many-to-one"
)

// NormalizeInput converts the accepted loose input shapes to a canonical
// schema, in precedence order: an existing canonical schema or fields map,
// then a JSON-Schema-shaped properties map, then a bare name sequence (each
// name becoming an unconstrained string field).
func NormalizeInput(input any) (*schema.Schema, error) {
	switch v := input.(type) {
	case *schema.Schema:
		return v, nil
	case schema.Schema:
		return &v, nil
	case map[string]schema.FieldDefinition:
		return &schema.Schema{Type: "object", Fields: v}, nil
	case map[string]any:
		// A serialized canonical schema: decode the fields map.
		if rawFields, ok := v["fields"]; ok {
			data, err := json.Marshal(rawFields)
			if err != nil {
				return nil, &schema.StructuralViolation{Reason: "fields map is not serializable"}
			}
			var fields map[string]schema.FieldDefinition
			if err := json.Unmarshal(data, &fields); err != nil {
				return nil, &schema.StructuralViolation{Reason: "fields map does not decode to field definitions"}
			}
			title, _ := v["title"].(string)
			return &schema.Schema{Title: title, Type: "object", Fields: fields}, nil
		}
	case []string:
		fields := make(map[string]schema.FieldDefinition, len(v))
		for _, name := range v {
			fields[name] = schema.FieldDefinition{Name: name, Kind: schema.KindString}
		}
		return &schema.Schema{Type: "object", Fields: fields}, nil
	}
	return nil, &schema.StructuralViolation{Reason: "unsupported generation input shape"}
}

// GenerateRecord produces a single record from the schema, one generated
// value per field.
func GenerateRecord(s *schema.Schema, rng *rand.Rand) (Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := NewFieldGenerator(rng)
	return g.record(s)
}

// GenerateRecords produces opts.Count records. Fields are generated
// independently of each other; records are independent draws from the same
// stream.
func GenerateRecords(s *schema.Schema, opts Options) ([]Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := NewFieldGenerator(newRand(opts.Seed))

	out := make([]Record, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		record, err := g.record(s)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (g *FieldGenerator) record(s *schema.Schema) (Record, error) {
	record := make(Record, len(s.Fields))
	for _, name := range sortedKeys(s.Fields) {
		value, err := g.Generate(s.Fields[name])
		if err != nil {
			return nil, err
		}
		record[name] = value
	}
	return record, nil
}

// GenerateRelated generates one record set per named schema, then stamps
// foreign keys according to the relation list.
//
// Phase 1 generates every collection independently and guarantees each
// record an identifier (the schema's primary-key field, or "id"). Phase 2
// walks relations in list order: one-to-many samples 1-3 target records per
// source record, without replacement, and stamps the source identifier on
// each; many-to-one stamps each source record with one uniformly chosen
// target identifier. Later stamps overwrite earlier ones.
func GenerateRelated(schemas map[string]*schema.Schema, relations []Relation, opts map[string]Options) (map[string][]Record, error) {
	collections := make(map[string][]Record, len(schemas))

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var wiringSeed *int64
	for _, name := range names {
		o := opts[name]
		if o.Count == 0 {
			o.Count = 10
		}
		if wiringSeed == nil && o.Seed != nil {
			wiringSeed = o.Seed
		}

		records, err := GenerateRecords(schemas[name], o)
		if err != nil {
			return nil, err
		}
		ensureIdentifiers(records, idFieldName(schemas[name]), newRand(o.Seed))
		collections[name] = records
	}

	rng := newRand(wiringSeed)
	for _, rel := range relations {
		from, to := collections[rel.From], collections[rel.To]
		if len(from) == 0 || len(to) == 0 {
			continue
		}

		// Default key names the record being pointed at: books get an
		// authorId, orders get a customerId.
		fk := rel.ForeignKey
		if fk == "" {
			if rel.Kind == RelationManyToOne {
				fk = rel.To + "Id"
			} else {
				fk = rel.From + "Id"
			}
		}
		fromID := idFieldName(schemas[rel.From])
		toID := idFieldName(schemas[rel.To])

		switch rel.Kind {
		case RelationManyToOne:
			for _, record := range from {
				target := to[rng.Intn(len(to))]
				record[fk] = target[toID]
			}
		default:
			// one-to-many is the default wiring.
			for _, record := range from {
				for _, idx := range sampleIndexes(rng, len(to), 1+rng.Intn(3)) {
					to[idx][fk] = record[fromID]
				}
			}
			// Sampling can miss targets; every target record still needs
			// an owner.
			for _, record := range to {
				if record[fk] == nil {
					record[fk] = from[rng.Intn(len(from))][fromID]
				}
			}
		}
	}

	return collections, nil
}

// idFieldName returns the schema's declared primary-key field, or "id".
func idFieldName(s *schema.Schema) string {
	if s != nil {
		for _, name := range sortedKeys(s.Fields) {
			if s.Fields[name].PrimaryKey {
				return name
			}
		}
	}
	return "id"
}

// ensureIdentifiers assigns a fresh identifier to any record missing one.
func ensureIdentifiers(records []Record, idField string, rng *rand.Rand) {
	for _, record := range records {
		if v, ok := record[idField]; !ok || v == nil {
			if id, err := uuid.NewRandomFromReader(rng); err == nil {
				record[idField] = id.String()
			} else {
				record[idField] = uuid.New().String()
			}
		}
	}
}

// sampleIndexes draws up to n distinct indexes from [0, size).
func sampleIndexes(rng *rand.Rand, size, n int) []int {
	if n > size {
		n = size
	}
	return rng.Perm(size)[:n]
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
