package publish

import (
	"context"
	"errors"
)

// ErrNoRemoteURL is returned by an Uploader when the host accepted the call
// but yielded no resolvable URL for the uploaded file.
var ErrNoRemoteURL = errors.New("content host returned no resolvable URL")

// Uploader pushes a local file to a content host and returns a publicly
// resolvable URL for it.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// ContainerAPI drives the remote media pipeline's two-phase commit: create a
// container, wait for server-side processing, publish.
type ContainerAPI interface {
	// CreateImageContainer stages an image for publishing and returns the
	// container ID.
	CreateImageContainer(ctx context.Context, imageURL, caption string) (string, error)

	// WaitForContainer blocks until the container finishes processing or the
	// implementation's poll budget runs out. A false return without error
	// means "not confirmed ready"; the engine may still attempt to publish.
	WaitForContainer(ctx context.Context, containerID string) (bool, error)

	// Publish commits the container and returns the published media ID.
	Publish(ctx context.Context, containerID string) (string, error)
}

// Normalizer produces a platform-compliant derived copy of a local image and
// returns its path. The engine owns deletion of the derived file.
type Normalizer interface {
	Normalize(path string) (string, error)
}

// NormalizeFunc adapts a plain function to the Normalizer interface.
type NormalizeFunc func(path string) (string, error)

// Normalize calls f(path).
func (f NormalizeFunc) Normalize(path string) (string, error) { return f(path) }
