package db

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Host: "replica.local", User: "ro", Password: "p", Database: "moda"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing host", func(c *Config) { c.Host = "" }, true},
		{"missing user", func(c *Config) { c.User = "" }, true},
		{"missing password", func(c *Config) { c.Password = "" }, true},
		{"missing database", func(c *Config) { c.Database = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.MergeDefaults().Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := (&Config{Host: "replica.local", User: "ro", Password: "p", Database: "moda"}).MergeDefaults()
	dsn := cfg.DSN()

	if !strings.HasPrefix(dsn, "ro:p@tcp(replica.local:3306)/moda?") {
		t.Fatalf("unexpected DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Fatal("DSN must enable parseTime for time.Time scanning")
	}
}
