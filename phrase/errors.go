package phrase

import (
	"fmt"
	"strconv"
)

// RequestFailedError is returned for any response outside the 2xx range.
type RequestFailedError struct {
	Method     string
	Path       string
	Status     int
	StatusText string
}

func (e *RequestFailedError) Error() string {
	status := strconv.Itoa(e.Status)
	if e.StatusText != "" {
		status += " " + e.StatusText
	}
	return fmt.Sprintf("request to %q failed with status %q", e.Method+" "+e.Path, status)
}

// DecodeError is returned when a successful response body does not match
// the expected JSON shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response of %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProjectNotFoundError means no project carries the requested name.
type ProjectNotFoundError struct {
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("Phrase project named %s was not found", e.Name)
}

// LocaleNotFoundError means the project has no locale with the requested name.
type LocaleNotFoundError struct {
	Name    string
	Project string
}

func (e *LocaleNotFoundError) Error() string {
	if e.Project != "" {
		return fmt.Sprintf("locale named %s was not found in project %s", e.Name, e.Project)
	}
	return fmt.Sprintf("locale named %s was not found", e.Name)
}
