// Package publish orchestrates the image publishing workflow: normalize the
// image geometry, upload it to the content host, create an Instagram media
// container, wait for remote processing, publish the container, and clean up
// the derived file.
//
// Publish never returns an error to the caller: every exit path, including
// panics in collaborators, terminates in a single Result value.
package publish

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultCaption replaces a blank caller-supplied caption.
const DefaultCaption = "✨ Check out this beautiful handmade creation! 🎨 #handmade #artisan #craft"

// Credentials are the Instagram Graph API credentials the workflow requires.
// They are validated before any collaborator is called.
type Credentials struct {
	AccessToken string
	AccountID   string
}

// Engine runs the publish workflow. One Engine may serve many invocations;
// it holds no per-invocation state.
type Engine struct {
	creds      Credentials
	uploader   Uploader
	containers ContainerAPI
	normalizer Normalizer
}

// NewEngine wires the workflow's collaborators. normalizer may be nil, in
// which case images are uploaded as-is.
func NewEngine(creds Credentials, uploader Uploader, containers ContainerAPI, normalizer Normalizer) *Engine {
	return &Engine{
		creds:      creds,
		uploader:   uploader,
		containers: containers,
		normalizer: normalizer,
	}
}

// Publish runs the full workflow for one image and reports the outcome.
// Failures of every kind are captured in the returned Result; Success is
// true iff the image was published and a media ID obtained.
func (e *Engine) Publish(ctx context.Context, imagePath, caption string) (result Result) {
	att := &attempt{engine: e, stage: StageInput}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("stage", string(att.stage)).
				Interface("panic", r).
				Msg("Unexpected fault in publish workflow")
			result = Result{
				Status:  fmt.Sprintf("Unexpected failure during %s stage: %v", att.stage, r),
				Success: false,
			}
		}
	}()

	mediaID, finalCaption, imageURL, err := att.run(ctx, imagePath, caption)
	if err != nil {
		return failureResult(err, att.stage)
	}
	return successResult(mediaID, finalCaption, imageURL)
}

// attempt tracks the current stage of one Publish invocation so panic
// recovery and error reporting can name where the flow stopped.
type attempt struct {
	engine *Engine
	stage  Stage
}

func (a *attempt) run(ctx context.Context, imagePath, caption string) (mediaID, finalCaption, imageURL string, err error) {
	e := a.engine

	if e.creds.AccessToken == "" || e.creds.AccountID == "" {
		return "", "", "", &InputError{Reason: "Missing Instagram API credentials."}
	}
	if imagePath == "" {
		return "", "", "", &InputError{Reason: "Image file not found: (empty path)"}
	}
	if _, statErr := os.Stat(imagePath); statErr != nil {
		return "", "", "", &InputError{Reason: fmt.Sprintf("Image file not found: %s", imagePath)}
	}

	if strings.TrimSpace(caption) == "" {
		log.Debug().Msg("Blank caption, substituting default")
		caption = DefaultCaption
	}
	finalCaption = caption

	// Geometry normalization is best-effort: an image that cannot be
	// converted is posted as-is and Instagram decides whether to accept it.
	a.stage = StageNormalize
	uploadPath := imagePath
	if e.normalizer != nil {
		derived, normErr := e.normalizer.Normalize(imagePath)
		switch {
		case normErr != nil:
			log.Warn().Err(normErr).Str("path", imagePath).Msg("Image normalization failed, posting original")
		case derived != "" && derived != imagePath:
			uploadPath = derived
			defer removeDerived(derived)
		}
	}

	a.stage = StageUpload
	log.Info().Str("path", uploadPath).Msg("Uploading image to Cloudinary")
	imageURL, uploadErr := e.uploader.Upload(ctx, uploadPath)
	if uploadErr != nil {
		return "", finalCaption, "", &UploadError{Err: uploadErr}
	}
	log.Info().Str("imageUrl", imageURL).Msg("Cloudinary upload successful")

	a.stage = StageContainer
	containerID, createErr := e.containers.CreateImageContainer(ctx, imageURL, caption)
	if createErr != nil {
		return "", finalCaption, imageURL, &ContainerError{Op: "create", Err: createErr}
	}

	// Always check readiness at least once before publishing; the container
	// API guarantees one status query even when the budget is one attempt.
	a.stage = StagePoll
	ready, waitErr := e.containers.WaitForContainer(ctx, containerID)
	if waitErr != nil {
		return "", finalCaption, imageURL, &ContainerError{Op: "wait", Err: waitErr}
	}
	if !ready {
		log.Warn().Str("containerId", containerID).Msg("Media not confirmed ready, attempting publish anyway")
	}

	a.stage = StagePublish
	mediaID, publishErr := e.containers.Publish(ctx, containerID)
	if publishErr != nil {
		return "", finalCaption, imageURL, &PublishError{Err: publishErr}
	}

	return mediaID, finalCaption, imageURL, nil
}

// removeDerived deletes the normalized copy after the workflow reaches a
// terminal state. Best-effort: a leftover file is not worth surfacing over
// the publish outcome.
func removeDerived(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove derived image")
		return
	}
	log.Debug().Str("path", path).Msg("Removed derived image")
}
