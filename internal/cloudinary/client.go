// Package cloudinary wraps the Cloudinary upload API behind the narrow
// uploader contract the publish workflow needs: one local file in, one
// publicly resolvable HTTPS URL out.
package cloudinary

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/craftsocial/poster/internal/publish"
)

// uploadFolder groups all poster uploads in the Cloudinary media library.
const uploadFolder = "craft-posts"

// Client uploads local images to Cloudinary.
type Client struct {
	cld *cloudinary.Cloudinary
}

// NewClient creates a Cloudinary client from explicit credentials.
func NewClient(cloudName, apiKey, apiSecret string) (*Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("incomplete Cloudinary credentials")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("create Cloudinary client: %w", err)
	}
	return &Client{cld: cld}, nil
}

// Upload pushes the file at path to Cloudinary and returns its secure URL.
// The file must exist locally; this is checked before any network call.
// An upload that succeeds at the transport level but yields no URL returns
// publish.ErrNoRemoteURL.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("local file %s: %w", path, err)
	}

	publicID := fmt.Sprintf("%s/%s", uploadFolder, uuid.NewString())
	log.Debug().Str("path", path).Str("publicId", publicID).Msg("Uploading to Cloudinary")

	res, err := c.cld.Upload.Upload(ctx, path, uploader.UploadParams{PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", publish.ErrNoRemoteURL
	}

	log.Debug().Str("secureUrl", res.SecureURL).Int("bytes", res.Bytes).Msg("Cloudinary upload complete")
	return res.SecureURL, nil
}
