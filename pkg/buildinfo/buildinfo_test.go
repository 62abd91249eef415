package buildinfo

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestValue(t *testing.T) {
	if !strings.HasPrefix(Value.Version, Version) {
		t.Errorf("Value.Version = %q, want prefix %q", Value.Version, Version)
	}
	if Value.GoVersion != runtime.Version() {
		t.Errorf("Value.GoVersion = %q, want %q", Value.GoVersion, runtime.Version())
	}
}

func TestValue_JSON(t *testing.T) {
	b, err := json.Marshal(Value)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Info
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != Value {
		t.Errorf("round trip changed value: %v != %v", decoded, Value)
	}
}
