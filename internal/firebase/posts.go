package firebase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// postsCollection is the Firestore collection publish outcomes land in.
const postsCollection = "posts"

// archivePrefix is the bucket prefix for archived source images.
const archivePrefix = "originals/"

// PostRecord is the Firestore document written for each publish attempt.
type PostRecord struct {
	Status   string    `firestore:"status"`
	Success  bool      `firestore:"success"`
	MediaID  string    `firestore:"mediaId,omitempty"`
	Caption  string    `firestore:"caption,omitempty"`
	ImageURL string    `firestore:"imageUrl,omitempty"`
	PostedAt time.Time `firestore:"postedAt"`
}

// RecordPost appends the publish outcome to the posts collection.
func (a *App) RecordPost(ctx context.Context, rec PostRecord) error {
	if rec.PostedAt.IsZero() {
		rec.PostedAt = time.Now().UTC()
	}
	if _, _, err := a.Firestore.Collection(postsCollection).Add(ctx, rec); err != nil {
		return fmt.Errorf("record post: %w", err)
	}
	return nil
}

// ArchiveOriginal copies the source image into the bucket under the archive
// prefix and returns the object name.
func (a *App) ArchiveOriginal(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	object := archivePrefix + filepath.Base(localPath)
	w := a.Bucket.Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", object, err)
	}
	return object, nil
}
