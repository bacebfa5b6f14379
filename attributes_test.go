package queryspec

import (
	"errors"
	"testing"
)

type project struct {
	Name      string
	CreatedBy string
	Owner     *account
	Labels    map[string]string
	hidden    string
}

type account struct {
	Login string
}

type vault struct {
	secrets map[string]any
}

func (v *vault) Attribute(name string) (any, bool) {
	s, ok := v.secrets[name]
	return s, ok
}

func TestAttributeValueMap(t *testing.T) {
	candidate := map[string]any{
		"name": "core",
		"meta": map[string]any{"stage": "beta"},
	}

	v, err := AttributeValue(candidate, "name")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if v != "core" {
		t.Errorf("value = %v, want core", v)
	}

	v, err = AttributeValue(candidate, "meta.stage")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if v != "beta" {
		t.Errorf("value = %v, want beta", v)
	}

	_, err = AttributeValue(candidate, "meta.missing")
	var ae *AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AttributeError, got %v", err)
	}
	if ae.Segment != "missing" || ae.Path != "meta.missing" {
		t.Errorf("unexpected error fields: %+v", ae)
	}
}

func TestAttributeValueStruct(t *testing.T) {
	p := &project{
		Name:      "core",
		CreatedBy: "alice",
		Owner:     &account{Login: "alice"},
		Labels:    map[string]string{"tier": "gold"},
	}

	tests := []struct {
		path string
		want any
	}{
		{"Name", "core"},
		{"name", "core"},
		{"created_by", "alice"},
		{"owner.login", "alice"},
		{"labels.tier", "gold"},
	}
	for _, tt := range tests {
		v, err := AttributeValue(p, tt.path)
		if err != nil {
			t.Fatalf("AttributeValue(%q) failed: %v", tt.path, err)
		}
		if v != tt.want {
			t.Errorf("AttributeValue(%q) = %v, want %v", tt.path, v, tt.want)
		}
	}
}

func TestAttributeValueNilTraversal(t *testing.T) {
	p := &project{Name: "core"}

	v, err := AttributeValue(p, "owner.login")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if v != nil {
		t.Errorf("value = %v, want nil through absent owner", v)
	}

	v, err = AttributeValue(nil, "anything.at.all")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if v != nil {
		t.Errorf("value = %v, want nil for nil candidate", v)
	}

	var nilMap map[string]any
	v, err = AttributeValue(nilMap, "key")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if v != nil {
		t.Errorf("value = %v, want nil for nil map", v)
	}
}

func TestAttributeValueUnexportedField(t *testing.T) {
	p := &project{hidden: "x"}
	_, err := AttributeValue(p, "hidden")
	var ae *AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AttributeError for unexported field, got %v", err)
	}
}

func TestAttributeValueSource(t *testing.T) {
	v := &vault{secrets: map[string]any{"token": "s3cr3t"}}

	got, err := AttributeValue(v, "token")
	if err != nil {
		t.Fatalf("AttributeValue failed: %v", err)
	}
	if got != "s3cr3t" {
		t.Errorf("value = %v, want s3cr3t", got)
	}

	if _, err := AttributeValue(v, "nope"); err == nil {
		t.Error("expected AttributeError from source miss")
	}
}

func TestAttributeValueUnsupportedCandidate(t *testing.T) {
	_, err := AttributeValue(42, "anything")
	var ae *AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AttributeError, got %v", err)
	}
}
