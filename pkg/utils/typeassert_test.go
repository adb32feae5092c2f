package utils

import "testing"

func TestOptionalMapField(t *testing.T) {
	m := map[string]any{"model": "sonnet", "rules": nil, "dry_run": "yes"}

	v, ok, err := OptionalMapField[string](m, "model")
	if err != nil || !ok || v != "sonnet" {
		t.Errorf("Expected sonnet, got %q ok=%v err=%v", v, ok, err)
	}

	_, ok, err = OptionalMapField[string](m, "rules")
	if err != nil || ok {
		t.Errorf("Expected null to be absent, ok=%v err=%v", ok, err)
	}

	_, ok, err = OptionalMapField[string](m, "missing")
	if err != nil || ok {
		t.Errorf("Expected missing to be absent, ok=%v err=%v", ok, err)
	}

	if _, _, err = OptionalMapField[bool](m, "dry_run"); err == nil {
		t.Error("Expected type mismatch error")
	}
}

func TestSafeAssert(t *testing.T) {
	if v, ok := SafeAssert[int](5); !ok || v != 5 {
		t.Errorf("Expected 5, got %v", v)
	}
	if _, ok := SafeAssert[string](5); ok {
		t.Error("Expected failure")
	}
}
