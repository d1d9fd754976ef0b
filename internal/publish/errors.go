package publish

import (
	"errors"
	"fmt"
)

// Stage identifies where in the workflow a failure occurred.
type Stage string

const (
	StageInput     Stage = "input"
	StageNormalize Stage = "normalize"
	StageUpload    Stage = "upload"
	StageContainer Stage = "container"
	StagePoll      Stage = "poll"
	StagePublish   Stage = "publish"
)

// stageError is implemented by every error in the workflow taxonomy so the
// result reporter can log which stage produced the failure.
type stageError interface {
	error
	Stage() Stage
}

// InputError reports invalid caller input: missing credentials or a missing
// source file. Recoverable by retrying with corrected input. No network call
// is made once an InputError is raised.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// Stage returns StageInput.
func (e *InputError) Stage() Stage { return StageInput }

// UploadError reports a failed or empty content-host upload.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	if errors.Is(e.Err, ErrNoRemoteURL) {
		return "Cloudinary upload failed."
	}
	return fmt.Sprintf("Cloudinary upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Stage returns StageUpload.
func (e *UploadError) Stage() Stage { return StageUpload }

// ContainerError reports a failure creating the remote media container or
// waiting for it to finish processing. The Op distinguishes the two.
type ContainerError struct {
	Op  string // "create" or "wait"
	Err error
}

func (e *ContainerError) Error() string {
	if e.Op == "wait" {
		return fmt.Sprintf("Media processing wait failed: %v", e.Err)
	}
	return fmt.Sprintf("Container creation failed: %v", e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }

// Stage returns StagePoll for wait failures, StageContainer otherwise.
func (e *ContainerError) Stage() Stage {
	if e.Op == "wait" {
		return StagePoll
	}
	return StageContainer
}

// PublishError reports a failed media_publish call.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("Publish failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Stage returns StagePublish.
func (e *PublishError) Stage() Stage { return StagePublish }
