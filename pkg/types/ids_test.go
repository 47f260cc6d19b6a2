package types

import (
	"encoding/json"
	"testing"
)

func TestIDRoundTrip(t *testing.T) {
	id := NewUserID()
	if id.IsNil() {
		t.Fatal("expected non-nil id")
	}

	parsed, err := ParseUserID(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %s, got %s", id, parsed)
	}
}

func TestParseIDRejectsGarbage(t *testing.T) {
	if _, err := ParseUserID("not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid user id")
	}
	if _, err := ParseBookID(""); err == nil {
		t.Fatal("expected error for empty book id")
	}
	if _, err := ParseOrderID("1234"); err == nil {
		t.Fatal("expected error for short order id")
	}
}

func TestNilIDs(t *testing.T) {
	if !NilUserID.IsNil() || !NilBookID.IsNil() || !NilOrderID.IsNil() {
		t.Fatal("nil ids must report IsNil")
	}
	if NewBookID().IsNil() || NewOrderID().IsNil() {
		t.Fatal("generated ids must not be nil")
	}
}

func TestIDJSONEncoding(t *testing.T) {
	id := NewBookID()

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"`+id.String()+`"` {
		t.Fatalf("expected canonical string form, got %s", data)
	}

	var decoded BookID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != id {
		t.Fatalf("expected %s, got %s", id, decoded)
	}
}

func TestIDSQLValue(t *testing.T) {
	id := NewOrderID()
	value, err := id.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	str, ok := value.(string)
	if !ok || str != id.String() {
		t.Fatalf("expected string driver value %s, got %v", id, value)
	}

	var scanned OrderID
	if err := scanned.Scan(str); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned != id {
		t.Fatalf("expected %s, got %s", id, scanned)
	}
}
