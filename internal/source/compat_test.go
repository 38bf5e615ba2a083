package source

import "testing"

func TestCompatForVersion(t *testing.T) {
	tests := []struct {
		version string
		want    Compat
	}{
		{"", Current},
		{"3.0", Current},
		{"3.38", Current},
		{"4.2", Current},
		{"2.1", Legacy},
		{"1.6", Legacy},
		{" 2.0 ", Legacy},
	}
	for _, tt := range tests {
		got, err := CompatForVersion(tt.version)
		if err != nil {
			t.Errorf("CompatForVersion(%q) error = %v", tt.version, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CompatForVersion(%q) = %s, want %s", tt.version, got, tt.want)
		}
	}
}

func TestCompatForVersion_Invalid(t *testing.T) {
	if _, err := CompatForVersion("three"); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestCompat_Set(t *testing.T) {
	var c Compat
	if err := c.Set("LEGACY"); err != nil || c != Legacy {
		t.Errorf("Set(LEGACY) = %v, %s", err, c)
	}
	if err := c.Set("current"); err != nil || c != Current {
		t.Errorf("Set(current) = %v, %s", err, c)
	}
	if err := c.Set("old"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if c.Type() != "compat" {
		t.Errorf("Type() = %q", c.Type())
	}
}
