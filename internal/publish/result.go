package publish

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// statusPosted is the terminal status for a successful publish.
const statusPosted = "Successfully posted to Instagram!"

// Result is the single outcome record every publish attempt terminates in,
// regardless of which stage failed. Success is true iff a media ID was
// obtained and no stage errored.
type Result struct {
	Status   string `json:"status"`
	Success  bool   `json:"success"`
	MediaID  string `json:"media_id,omitempty"`
	Caption  string `json:"caption,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// failureResult normalizes any workflow error into a Result, logging the
// originating stage. Errors outside the taxonomy land in the "unexpected"
// bucket but still carry the stage set by the caller.
func failureResult(err error, fallbackStage Stage) Result {
	stage := fallbackStage
	var se stageError
	if errors.As(err, &se) {
		stage = se.Stage()
	}

	log.Error().
		Str("stage", string(stage)).
		Str("status", err.Error()).
		Msg("Publish failed")

	return Result{Status: err.Error(), Success: false}
}

// successResult builds the terminal success record.
func successResult(mediaID, caption, imageURL string) Result {
	log.Info().
		Str("mediaId", mediaID).
		Str("imageUrl", imageURL).
		Msg("Successfully posted to Instagram")

	return Result{
		Status:   statusPosted,
		Success:  true,
		MediaID:  mediaID,
		Caption:  caption,
		ImageURL: imageURL,
	}
}
