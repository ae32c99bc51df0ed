package debug

import "testing"

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"junk", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
	}
	for _, tt := range tests {
		t.Setenv("ANVIL_DEBUG_TEST", tt.val)
		if got := boolEnv("ANVIL_DEBUG_TEST"); got != tt.want {
			t.Errorf("boolEnv(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}

func TestSwitchesDefaultOff(t *testing.T) {
	// none of the ANVIL_DEBUG_* variables are set under go test
	for name, on := range map[string]bool{
		"tokens": Tokens(),
		"parse":  Parse(),
		"refs":   Refs(),
		"build":  Build(),
		"hooks":  Hooks(),
		"watch":  Watch(),
	} {
		if on {
			t.Errorf("%s switch on without its environment variable", name)
		}
	}
}
