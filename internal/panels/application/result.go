package application

import (
	"fmt"

	panels "solarfarm/internal/panels/domain"
)

// ResultStatus classifies a service outcome.
type ResultStatus string

const (
	StatusSuccess  ResultStatus = "success"
	StatusInvalid  ResultStatus = "invalid"
	StatusNotFound ResultStatus = "not_found"
)

// Result is the outcome of a mutating service call. Validation problems are
// reported here rather than as errors.
type Result struct {
	Status   ResultStatus
	Panel    *panels.SolarPanel
	Messages []string
}

// Success reports whether the operation succeeded.
func (r Result) Success() bool {
	return r.Status == StatusSuccess
}

func (r *Result) addMessage(status ResultStatus, format string, args ...any) {
	r.Status = status
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) Result {
	var r Result
	r.addMessage(StatusInvalid, format, args...)
	return r
}

func notFound(format string, args ...any) Result {
	var r Result
	r.addMessage(StatusNotFound, format, args...)
	return r
}

func success(panel *panels.SolarPanel) Result {
	return Result{Status: StatusSuccess, Panel: panel}
}
