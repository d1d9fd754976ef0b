// Package firebase initializes the Firebase Admin app backing the poster's
// document and storage needs. Clients are constructed once from an explicit
// Config and handed to whoever needs them; there is no package-level app.
package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// DefaultMountedCredentials is where hosted deployments mount the service
// account key as a secret file.
const DefaultMountedCredentials = "/etc/secrets/FIREBASE_SERVICE_ACCOUNT_KEY"

// Config locates the service account key and names the storage bucket.
type Config struct {
	// MountedCredentialsFile is checked first (hosted deployments). Empty
	// means DefaultMountedCredentials.
	MountedCredentialsFile string
	// CredentialsFile is the local development fallback.
	CredentialsFile string
	// StorageBucket is the default Cloud Storage bucket, e.g. "my-app.appspot.com".
	StorageBucket string
}

// ResolveCredentials picks the first service account key file that exists,
// preferring the mounted secret path over the local fallback.
func ResolveCredentials(cfg Config) (string, error) {
	mounted := cfg.MountedCredentialsFile
	if mounted == "" {
		mounted = DefaultMountedCredentials
	}
	if _, err := os.Stat(mounted); err == nil {
		return mounted, nil
	}
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err == nil {
			return cfg.CredentialsFile, nil
		}
	}
	return "", fmt.Errorf("service account key not found at %s or %s", mounted, cfg.CredentialsFile)
}

// App bundles the Firestore client and default Cloud Storage bucket.
type App struct {
	Firestore *firestore.Client
	Bucket    *storage.BucketHandle
}

// NewApp initializes the Firebase Admin app and returns ready clients.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET must be set")
	}

	keyPath, err := ResolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fb.NewApp(ctx,
		&fb.Config{StorageBucket: cfg.StorageBucket},
		option.WithCredentialsFile(keyPath))
	if err != nil {
		return nil, fmt.Errorf("initialize Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create Firestore client: %w", err)
	}

	st, err := app.Storage(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("create Storage client: %w", err)
	}
	bucket, err := st.DefaultBucket()
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("resolve default bucket: %w", err)
	}

	log.Info().
		Str("bucket", cfg.StorageBucket).
		Str("credentials", keyPath).
		Msg("Firebase initialized")

	return &App{Firestore: fs, Bucket: bucket}, nil
}

// Close releases the Firestore client. Storage handles need no cleanup.
func (a *App) Close() error {
	return a.Firestore.Close()
}
