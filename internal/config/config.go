// Package config loads the poster's configuration from the environment.
//
// Everything is collected into one Config struct constructed at startup and
// passed explicitly to the components that need it; nothing in this package
// (or anywhere else) holds configuration in a package-level global.
package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every credential and tunable the poster needs.
type Config struct {
	Cloudinary CloudinaryConfig
	Instagram  InstagramConfig
	Firebase   FirebaseConfig
}

// CloudinaryConfig identifies the Cloudinary account images are hosted on.
type CloudinaryConfig struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
}

// InstagramConfig carries the Graph API credentials for the target account.
type InstagramConfig struct {
	AccessToken       string `env:"INSTAGRAM_ACCESS_TOKEN"`
	BusinessAccountID string `env:"INSTAGRAM_BUSINESS_ACCOUNT_ID"`
}

// FirebaseConfig locates the optional Firebase side of the system.
// Hosted deployments mount the service account key as a secret file; local
// development falls back to a key file in the working tree.
type FirebaseConfig struct {
	MountedCredentialsFile string `env:"FIREBASE_MOUNTED_SECRET_PATH" env-default:"/etc/secrets/FIREBASE_SERVICE_ACCOUNT_KEY"`
	CredentialsFile        string `env:"FIREBASE_SERVICE_ACCOUNT_PATH" env-default:"keys/FirebaseServiceAccountKey.json"`
	StorageBucket          string `env:"FIREBASE_STORAGE_BUCKET"`
}

// Enabled reports whether the Firebase side is configured at all.
func (c FirebaseConfig) Enabled() bool {
	return c.StorageBucket != ""
}

// Complete reports whether all Cloudinary credentials are present.
func (c CloudinaryConfig) Complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Complete reports whether all Instagram credentials are present.
func (c InstagramConfig) Complete() bool {
	return c.AccessToken != "" && c.BusinessAccountID != ""
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first missing credential group. Firebase settings are
// not validated here: that side of the system is optional and checked by the
// firebase package when it is actually used.
func (c *Config) Validate() error {
	if !c.Instagram.Complete() {
		return errors.New("missing Instagram API credentials (INSTAGRAM_ACCESS_TOKEN, INSTAGRAM_BUSINESS_ACCOUNT_ID)")
	}
	if !c.Cloudinary.Complete() {
		return errors.New("missing Cloudinary credentials (CLOUD_NAME, API_KEY, API_SECRET)")
	}
	return nil
}
