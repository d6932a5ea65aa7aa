package schema

import "testing"

func TestEnhanceFormatInference(t *testing.T) {
	tests := []struct {
		name       string
		field      FieldDefinition
		wantFormat string
	}{
		{"contactEmail", FieldDefinition{Kind: KindString}, "email"},
		{"mobileNumber", FieldDefinition{Kind: KindString}, "phone"},
		{"websiteUrl", FieldDefinition{Kind: KindString}, "url"},
		{"externalGuid", FieldDefinition{Kind: KindString}, "uuid"},
		{"birthDate", FieldDefinition{Kind: KindString}, "date"},
		{"createdDatetime", FieldDefinition{Kind: KindString}, "datetime"},
		{"userPassword", FieldDefinition{Kind: KindString}, "password"},
		{"comment", FieldDefinition{Kind: KindString}, ""},
		// An author-set format is never overwritten.
		{"email", FieldDefinition{Kind: KindString, Format: "url"}, "url"},
		// Non-string kinds are left alone.
		{"emailCount", FieldDefinition{Kind: KindInteger}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Schema{Type: "object", Fields: map[string]FieldDefinition{tt.name: tt.field}}
			got := Enhance(s).Fields[tt.name].Format
			if got != tt.wantFormat {
				t.Errorf("Expected format %q, got %q", tt.wantFormat, got)
			}
		})
	}
}

func TestEnhanceBounds(t *testing.T) {
	s := &Schema{
		Type: "object",
		Fields: map[string]FieldDefinition{
			"contactEmail": {Kind: KindString},
			"homepage":     {Kind: KindString, Format: "url"},
			"firstName":    {Kind: KindString},
			"description":  {Kind: KindString},
			"bounded":      {Kind: KindString, Min: Float(3)},
		},
	}

	got := Enhance(s)

	email := got.Fields["contactEmail"]
	if email.Format != "email" {
		t.Errorf("Expected format email, got %q", email.Format)
	}
	if email.Min == nil || *email.Min != 5 || email.Max == nil || *email.Max != 255 {
		t.Errorf("Expected email bounds 5-255, got %v-%v", email.Min, email.Max)
	}

	url := got.Fields["homepage"]
	if url.Min == nil || *url.Min != 10 || url.Max == nil || *url.Max != 2083 {
		t.Errorf("Expected url bounds 10-2083, got %v-%v", url.Min, url.Max)
	}

	name := got.Fields["firstName"]
	if name.Min == nil || *name.Min != 2 || name.Max == nil || *name.Max != 100 {
		t.Errorf("Expected name bounds 2-100, got %v-%v", name.Min, name.Max)
	}

	desc := got.Fields["description"]
	if desc.Min == nil || *desc.Min != 10 || desc.Max == nil || *desc.Max != 1000 {
		t.Errorf("Expected description bounds 10-1000, got %v-%v", desc.Min, desc.Max)
	}

	// A field with one bound set keeps its bounds untouched.
	bounded := got.Fields["bounded"]
	if bounded.Min == nil || *bounded.Min != 3 || bounded.Max != nil {
		t.Errorf("Expected bounds 3-nil to survive, got %v-%v", bounded.Min, bounded.Max)
	}
}

func TestEnhanceDoesNotMutateInput(t *testing.T) {
	s := &Schema{
		Type:   "object",
		Fields: map[string]FieldDefinition{"contactEmail": {Kind: KindString}},
	}

	_ = Enhance(s)

	if s.Fields["contactEmail"].Format != "" {
		t.Error("Enhance mutated its input schema")
	}
}

func TestEnhanceTopLevelOnly(t *testing.T) {
	s := &Schema{
		Type: "object",
		Fields: map[string]FieldDefinition{
			"profile": {
				Kind: KindObject,
				Properties: map[string]FieldDefinition{
					"email": {Kind: KindString},
				},
			},
		},
	}

	got := Enhance(s)

	if got.Fields["profile"].Properties["email"].Format != "" {
		t.Error("Enhance recursed into nested properties")
	}
}
