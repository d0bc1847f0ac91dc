package capability

import "errors"

// dependencyUnavailableError signals the backend cannot serve at all (worker
// died, llama not built in).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed backend.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// pipelineError carries an error message reported by the pipeline itself.
type pipelineError struct{ msg string }

func (e pipelineError) Error() string { return e.msg }

// ErrPipeline constructs a pipelineError.
func ErrPipeline(msg string) error { return pipelineError{msg: msg} }

// IsPipelineError reports whether err was raised by the model pipeline.
func IsPipelineError(err error) bool {
	var e pipelineError
	return errors.As(err, &e)
}
