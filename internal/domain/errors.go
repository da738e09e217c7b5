package domain

import (
	"errors"
	"fmt"
)

// Collection names one of the two persisted logs.
type Collection string

const (
	CollectionHistory Collection = "history"
	CollectionSaved   Collection = "saved"
)

// ErrEmptyContent is returned when a fetched page is blank after trimming.
var ErrEmptyContent = errors.New("Fetched content from URL is empty.")

// ValidationError rejects user input before any side effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FetchError is a non-success response from the URL-fetch collaborator.
// Status is 0 when the request never got a response.
type FetchError struct {
	Status     int
	StatusText string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("failed to fetch from URL: %v", e.Err)
	}
	return fmt.Sprintf("Failed to fetch from URL: %d %s. The proxy or target site may be unavailable or blocking the request.",
		e.Status, e.StatusText)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is any failure of the extraction service.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string { return e.Message }

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceReadError means stored state could not be read or parsed.
type PersistenceReadError struct {
	Collection Collection
	Err        error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("failed to load %s from storage: %v", e.Collection, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }

// PersistenceWriteError means a collection could not be written back.
type PersistenceWriteError struct {
	Collection Collection
	Err        error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Collection, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }
