package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "stacx"},
		{"HomeDir", HomeDir(), ".stacx"},
		{"EnvPrefix", EnvPrefix(), "STACX"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if Description() == "" || DisplayName() == "" {
		t.Error("expected non-empty description and display name")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("log_level"); got != "STACX_LOG_LEVEL" {
		t.Errorf("EnvVar(log_level) = %q, want %q", got, "STACX_LOG_LEVEL")
	}
}
