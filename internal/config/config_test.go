package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Cloudinary: CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"},
		Instagram:  InstagramConfig{AccessToken: "token", BusinessAccountID: "12345"},
	}
}

func TestValidateComplete(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingInstagram(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no token", func(c *Config) { c.Instagram.AccessToken = "" }},
		{"no account", func(c *Config) { c.Instagram.BusinessAccountID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), "Instagram") {
				t.Errorf("expected Instagram credential error, got: %v", err)
			}
		})
	}
}

func TestValidateMissingCloudinary(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no cloud name", func(c *Config) { c.Cloudinary.CloudName = "" }},
		{"no api key", func(c *Config) { c.Cloudinary.APIKey = "" }},
		{"no api secret", func(c *Config) { c.Cloudinary.APISecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), "Cloudinary") {
				t.Errorf("expected Cloudinary credential error, got: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	// Load must not fail on an empty environment; missing credentials are a
	// Validate concern, not a Load failure.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Firebase.MountedCredentialsFile != "/etc/secrets/FIREBASE_SERVICE_ACCOUNT_KEY" {
		t.Errorf("unexpected mounted secret default: %s", cfg.Firebase.MountedCredentialsFile)
	}
	if cfg.Firebase.CredentialsFile != "keys/FirebaseServiceAccountKey.json" {
		t.Errorf("unexpected local key default: %s", cfg.Firebase.CredentialsFile)
	}
}

func TestFirebaseEnabled(t *testing.T) {
	fb := FirebaseConfig{}
	if fb.Enabled() {
		t.Error("expected Firebase disabled without a bucket")
	}
	fb.StorageBucket = "demo.appspot.com"
	if !fb.Enabled() {
		t.Error("expected Firebase enabled with a bucket")
	}
}
