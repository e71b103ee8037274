package services

import (
	"errors"
	"fmt"
)

// ErrorClass is the coarse failure class the boundary layer translates into
// a caller-visible status.
type ErrorClass string

const (
	ClassUnavailable ErrorClass = "unavailable" // missing/corrupt artifact, recoverable
	ClassAlignment   ErrorClass = "alignment"   // feature mismatch or non-numeric input
	ClassEstimator   ErrorClass = "estimator"   // predictor failure during inference
	ClassConversion  ErrorClass = "conversion"  // no currency route
	ClassInternal    ErrorClass = "internal"
)

var (
	ErrArtifactUnavailable = errors.New("artifact unavailable")
	ErrAlignment           = errors.New("alignment error")
	ErrEstimator           = errors.New("estimator error")
	ErrConversion          = errors.New("conversion error")
)

// PipelineError tags a failure with the stage it happened in and its class.
// Inference is deterministic, so no retry logic hangs off these; they exist
// for translation and audit.
type PipelineError struct {
	Stage Stage
	Class ErrorClass
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Stage, e.Class, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func failStage(stage Stage, class ErrorClass, err error) *PipelineError {
	return &PipelineError{Stage: stage, Class: class, Err: err}
}

// ClassOf extracts the failure class from any error produced by the
// pipeline, defaulting to internal.
func ClassOf(err error) ErrorClass {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Class
	}
	return ClassInternal
}
