package domain

import (
	"encoding/json"
	"testing"
)

func TestFilterDescriptorUnmarshalText(t *testing.T) {
	var d FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"text","type":"contains","filter":"truck"}`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Kind != FilterKindText || d.Op != OpContains || d.Text != "truck" {
		t.Fatalf("unexpected descriptor %+v", d)
	}
}

func TestFilterDescriptorUnmarshalNumberVariants(t *testing.T) {
	var d FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"number","type":"inRange","filter":100,"filterTo":"200"}`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Kind != FilterKindNumber {
		t.Fatalf("expected number kind, got %q", d.Kind)
	}
	if d.Number == nil || *d.Number != 100 {
		t.Fatalf("expected filter 100, got %v", d.Number)
	}
	// Numeric strings are accepted, matching what grid widgets send.
	if d.NumberTo == nil || *d.NumberTo != 200 {
		t.Fatalf("expected filterTo 200, got %v", d.NumberTo)
	}
}

func TestFilterDescriptorUnmarshalNumberGarbage(t *testing.T) {
	var d FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"number","type":"equals","filter":"lots"}`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Number != nil {
		t.Fatalf("expected nil operand for garbage input, got %v", *d.Number)
	}
}

func TestFilterDescriptorUnmarshalDateAndSet(t *testing.T) {
	var d FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"date","type":"inRange","dateFrom":"2025-10-01","dateTo":"2025-10-20"}`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Kind != FilterKindDate || d.DateFrom != "2025-10-01" || d.DateTo != "2025-10-20" {
		t.Fatalf("unexpected descriptor %+v", d)
	}

	var s FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"set","values":["KEROSENE","NUCLEAR"]}`), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s.Kind != FilterKindSet || len(s.Values) != 2 {
		t.Fatalf("unexpected descriptor %+v", s)
	}
}

func TestFilterDescriptorUnknownKind(t *testing.T) {
	var d FilterDescriptor
	if err := json.Unmarshal([]byte(`{"filterType":"multi","type":"equals"}`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Kind != FilterKindUnknown {
		t.Fatalf("expected unknown kind, got %q", d.Kind)
	}
}
