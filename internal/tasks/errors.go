package tasks

import "fmt"

// Stage identifies the pipeline stage where a failure occurred.
type Stage int

const (
	StagePagination Stage = iota
	StageEnrichment
	StageFiltering
	StageBuild
)

func (s Stage) String() string {
	switch s {
	case StagePagination:
		return "pagination"
	case StageEnrichment:
		return "enrichment"
	case StageFiltering:
		return "filtering"
	case StageBuild:
		return "build"
	default:
		return "unknown"
	}
}

// StageError tags a transport failure with the pipeline stage it aborted,
// so callers can report partial progress ("N tracks fetched before failure").
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// PartialBuildError reports an append failure mid assembly. The playlist
// exists and already holds the URIs from the batches appended before the
// failing one; the operation is not transactional and nothing is rolled back.
type PartialBuildError struct {
	PlaylistID   string
	PlaylistName string
	Appended     []string // URIs appended by the batches that succeeded
	Err          error
}

func (e *PartialBuildError) Error() string {
	return fmt.Sprintf("playlist %s partially built: %d tracks appended before failure: %v", e.PlaylistID, len(e.Appended), e.Err)
}

func (e *PartialBuildError) Unwrap() error {
	return e.Err
}
