// Package generator synthesizes structurally valid sample values and records
// from the canonical field model.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synthrec/synthrec/internal/schema"
)

// Default ranges applied when a field carries no explicit bounds.
const (
	defaultStringMin = 5
	defaultStringMax = 10
	defaultNumberMin = 0
	defaultNumberMax = 1000
	defaultItemsMin  = 1
	defaultItemsMax  = 5
)

// FieldGenerator produces one value per field definition. It owns an
// explicit random source so that callers can seed for reproducibility and
// run independent generators on separate goroutines.
type FieldGenerator struct {
	rng *rand.Rand
}

// NewFieldGenerator creates a generator over the given random source. A nil
// source gets a time-seeded one.
func NewFieldGenerator(rng *rand.Rand) *FieldGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FieldGenerator{rng: rng}
}

// Generate synthesizes one value for the field. It is total over well-formed
// definitions: every known kind produces a value, and an unknown kind falls
// back to the string generator rather than failing. The only error is a
// *schema.StructuralViolation for malformed input (array without items, enum
// without values).
func (g *FieldGenerator) Generate(field schema.FieldDefinition) (any, error) {
	switch field.Kind {
	case schema.KindNumber:
		return g.generateNumber(field), nil
	case schema.KindInteger:
		return g.generateInteger(field), nil
	case schema.KindBoolean:
		return g.rng.Intn(2) == 1, nil
	case schema.KindArray:
		return g.generateArray(field)
	case schema.KindObject:
		return g.generateObject(field)
	case schema.KindEnum:
		if len(field.Values) == 0 {
			return nil, &schema.StructuralViolation{Field: field.Name, Reason: "enum field has no values"}
		}
		return field.Values[g.rng.Intn(len(field.Values))], nil
	case schema.KindComposite:
		return g.generateComposite(field)
	case schema.KindReference:
		if field.Default != nil {
			return field.Default, nil
		}
		return g.uuidString(), nil
	default:
		// KindString and anything unrecognized.
		return g.generateString(field), nil
	}
}

func (g *FieldGenerator) generateString(field schema.FieldDefinition) string {
	switch field.Format {
	case "email":
		return g.email()
	case "url", "uri":
		return g.url()
	case "uuid", "guid":
		return g.uuidString()
	case "phone":
		return g.phone()
	case "date":
		return g.timestamp().Format("2006-01-02")
	case "datetime", "date-time":
		return g.timestamp().Format(time.RFC3339)
	case "time":
		return g.timestamp().Format("15:04:05")
	case "firstName", "firstname":
		return g.pick(firstNames)
	case "lastName", "lastname":
		return g.pick(lastNames)
	case "name", "fullName", "fullname":
		return g.pick(firstNames) + " " + g.pick(lastNames)
	case "username":
		return strings.ToLower(g.pick(firstNames)) + fmt.Sprintf("%d", g.rng.Intn(1000))
	case "password":
		return g.randomChars(passwordAlphabet, 12, 20)
	case "word":
		return g.pick(words)
	case "sentence":
		return g.sentence()
	case "paragraph":
		return g.paragraph()
	case "ipv4":
		return fmt.Sprintf("%d.%d.%d.%d", 1+g.rng.Intn(254), g.rng.Intn(256), g.rng.Intn(256), 1+g.rng.Intn(254))
	case "hostname":
		return g.pick(words) + "." + g.pick(words) + "." + g.pick(urlTLDs)
	}

	min, max := g.intBounds(field.Min, field.Max, defaultStringMin, defaultStringMax)
	return g.randomChars(asciiLetters, min, max)
}

func (g *FieldGenerator) generateNumber(field schema.FieldDefinition) float64 {
	min, max := g.floatBounds(field.Min, field.Max, defaultNumberMin, defaultNumberMax)
	value := min + g.rng.Float64()*(max-min)

	digits := 0
	if field.Precision != nil {
		digits = *field.Precision
	}
	if field.Scale != nil {
		// DDL DECIMAL(p, s): s is the count of fractional digits.
		digits = *field.Scale
	}
	factor := math.Pow(10, float64(digits))
	return math.Round(value*factor) / factor
}

func (g *FieldGenerator) generateInteger(field schema.FieldDefinition) int64 {
	min, max := g.floatBounds(field.Min, field.Max, defaultNumberMin, defaultNumberMax)
	lo, hi := int64(math.Ceil(min)), int64(math.Floor(max))
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int63n(hi-lo+1)
}

func (g *FieldGenerator) generateArray(field schema.FieldDefinition) (any, error) {
	if field.Items == nil {
		return nil, &schema.StructuralViolation{Field: field.Name, Reason: "array field has no items definition"}
	}

	min, max := g.intBounds(field.Min, field.Max, defaultItemsMin, defaultItemsMax)
	length := min
	if max > min {
		length = min + g.rng.Intn(max-min+1)
	}

	out := make([]any, 0, length)
	for i := 0; i < length; i++ {
		value, err := g.Generate(*field.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func (g *FieldGenerator) generateObject(field schema.FieldDefinition) (any, error) {
	out := make(map[string]any, len(field.Properties))
	// Sorted order keeps random-stream consumption stable under a seed.
	for _, name := range sortedKeys(field.Properties) {
		value, err := g.Generate(field.Properties[name])
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

func sortedKeys(fields map[string]schema.FieldDefinition) []string {
	keys := make([]string, 0, len(fields))
	for name := range fields {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// compositeShapes are the fixed-shape domain records. Each shape generates
// its named sub-fields independently.
var compositeShapes = map[string]map[string]schema.FieldDefinition{
	"address": {
		"street":  {Kind: schema.KindString, Format: "street"},
		"city":    {Kind: schema.KindString, Format: "city"},
		"state":   {Kind: schema.KindString, Format: "state"},
		"zipCode": {Kind: schema.KindString, Format: "zip"},
		"country": {Kind: schema.KindString, Format: "country"},
	},
	"person": {
		"firstName": {Kind: schema.KindString, Format: "firstName"},
		"lastName":  {Kind: schema.KindString, Format: "lastName"},
		"email":     {Kind: schema.KindString, Format: "email"},
		"phone":     {Kind: schema.KindString, Format: "phone"},
		"age":       {Kind: schema.KindInteger, Min: schema.Float(18), Max: schema.Float(90)},
	},
	"company": {
		"name":      {Kind: schema.KindString, Format: "companyName"},
		"industry":  {Kind: schema.KindString, Format: "industry"},
		"employees": {Kind: schema.KindInteger, Min: schema.Float(1), Max: schema.Float(50000)},
		"website":   {Kind: schema.KindString, Format: "url"},
	},
	"product": {
		"name":     {Kind: schema.KindString, Format: "productName"},
		"sku":      {Kind: schema.KindString, Format: "uuid"},
		"price":    {Kind: schema.KindNumber, Min: schema.Float(1), Max: schema.Float(2000), Scale: schema.Int(2)},
		"category": {Kind: schema.KindString, Format: "category"},
	},
	"transaction": {
		"id":        {Kind: schema.KindString, Format: "uuid"},
		"amount":    {Kind: schema.KindNumber, Min: schema.Float(1), Max: schema.Float(10000), Scale: schema.Int(2)},
		"currency":  {Kind: schema.KindString, Format: "currency"},
		"timestamp": {Kind: schema.KindString, Format: "datetime"},
		"status":    {Kind: schema.KindString, Format: "transactionStatus"},
	},
}

func (g *FieldGenerator) generateComposite(field schema.FieldDefinition) (any, error) {
	shape, ok := compositeShapes[field.Format]
	if !ok {
		shape = compositeShapes["person"]
	}

	out := make(map[string]any, len(shape))
	for _, name := range sortedKeys(shape) {
		out[name] = g.compositePart(shape[name])
	}
	return out, nil
}

// compositePart handles the private formats used only inside composite
// shapes, delegating everything else to the normal path.
func (g *FieldGenerator) compositePart(field schema.FieldDefinition) any {
	switch field.Format {
	case "street":
		return fmt.Sprintf("%d %s %s", 1+g.rng.Intn(9999), g.title(g.pick(words)), g.pick(streetSuffixes))
	case "city":
		return g.pick(cities)
	case "state":
		return g.pick(states)
	case "zip":
		return fmt.Sprintf("%05d", g.rng.Intn(100000))
	case "country":
		return g.pick(countries)
	case "companyName":
		return g.title(g.pick(words)) + " " + g.pick(companySuffixes)
	case "industry":
		return g.pick(industries)
	case "productName":
		return g.title(g.pick(words)) + " " + g.title(g.pick(words))
	case "category":
		return g.pick(productCategories)
	case "currency":
		return g.pick(currencies)
	case "transactionStatus":
		return g.pick(transactionStatuses)
	}

	value, _ := g.Generate(field)
	return value
}

func (g *FieldGenerator) email() string {
	return fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(g.pick(firstNames)),
		strings.ToLower(g.pick(lastNames)),
		g.rng.Intn(100),
		g.pick(emailDomains))
}

func (g *FieldGenerator) url() string {
	return fmt.Sprintf("https://www.%s.%s/%s", g.pick(words), g.pick(urlTLDs), g.pick(words))
}

func (g *FieldGenerator) phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", 200+g.rng.Intn(800), g.rng.Intn(1000), g.rng.Intn(10000))
}

// uuidString draws UUID bytes from the generator's own source so that
// seeded runs stay reproducible.
func (g *FieldGenerator) uuidString() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand.Read never fails; guard anyway.
		return uuid.New().String()
	}
	return id.String()
}

func (g *FieldGenerator) timestamp() time.Time {
	// Anywhere in the decade before a fixed anchor, so output does not
	// drift with wall-clock time under a fixed seed.
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return anchor.Add(-time.Duration(g.rng.Int63n(int64(10 * 365 * 24 * time.Hour))))
}

func (g *FieldGenerator) sentence() string {
	count := 6 + g.rng.Intn(7)
	parts := make([]string, count)
	for i := range parts {
		parts[i] = g.pick(words)
	}
	return g.title(strings.Join(parts, " ")) + "."
}

func (g *FieldGenerator) paragraph() string {
	count := 3 + g.rng.Intn(3)
	sentences := make([]string, count)
	for i := range sentences {
		sentences[i] = g.sentence()
	}
	return strings.Join(sentences, " ")
}

func (g *FieldGenerator) randomChars(alphabet string, min, max int) string {
	length := min
	if max > min {
		length = min + g.rng.Intn(max-min+1)
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(alphabet[g.rng.Intn(len(alphabet))])
	}
	return sb.String()
}

func (g *FieldGenerator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *FieldGenerator) title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (g *FieldGenerator) intBounds(min, max *float64, defMin, defMax int) (int, int) {
	lo, hi := defMin, defMax
	if min != nil {
		lo = int(*min)
	}
	if max != nil {
		hi = int(*max)
	}
	// A declared bound always wins over the default on the other side, so a
	// lone Max below the default min lowers the min. Contradictory declared
	// bounds collapse onto the min.
	if hi < lo {
		if min == nil {
			lo = hi
		} else {
			hi = lo
		}
	}
	return lo, hi
}

func (g *FieldGenerator) floatBounds(min, max *float64, defMin, defMax float64) (float64, float64) {
	lo, hi := defMin, defMax
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	if hi < lo {
		if min == nil {
			lo = hi
		} else {
			hi = lo
		}
	}
	return lo, hi
}
