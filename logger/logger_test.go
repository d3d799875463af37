package logger

import "testing"

func TestNew_NilConfig(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if l == nil {
		t.Fatal("New(nil) returned nil logger")
	}
	l.Info("test")
}

func TestNew_PartialConfig(t *testing.T) {
	cfg := &Config{Level: "debug"}
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New with partial config failed: %v", err)
	}
	if cfg.Encoding != "json" {
		t.Errorf("expected encoding to default to json, got %q", cfg.Encoding)
	}
	l.Debug("test from partial config")
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"invalid level", &Config{Level: "loud", Encoding: "json"}},
		{"invalid encoding", &Config{Level: "info", Encoding: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestWith_CarriesFields(t *testing.T) {
	l := Nop()
	child := l.With()
	if child == nil {
		t.Fatal("With returned nil logger")
	}
	child.Info("no-op")
}
