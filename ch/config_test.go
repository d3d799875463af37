package ch

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid", &Config{Hosts: []string{"ch:9000"}, Username: "u", Password: "p"}, false},
		{"no hosts", &Config{Username: "u", Password: "p"}, true},
		{"no username", &Config{Hosts: []string{"ch:9000"}, Password: "p"}, true},
		{"no password", &Config{Hosts: []string{"ch:9000"}, Username: "u"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.MergeDefaults().Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MergeDefaults(t *testing.T) {
	cfg := (&Config{Hosts: []string{"ch:9000"}, Username: "u", Password: "p"}).MergeDefaults()
	if cfg.Database != "default" {
		t.Errorf("expected default database, got %q", cfg.Database)
	}
	if cfg.DialTimeout != 10*time.Second {
		t.Errorf("expected default dial timeout, got %v", cfg.DialTimeout)
	}
}
