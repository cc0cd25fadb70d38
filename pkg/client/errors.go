package client

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorKind classifies a failed page fetch.
type ErrorKind string

const (
	// ErrorKindNetwork means no response was obtained.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindMalformed means the response body was not valid JSON.
	ErrorKindMalformed ErrorKind = "malformed_response"

	// ErrorKindAPI means the API reported a non-zero status code.
	ErrorKindAPI ErrorKind = "api"

	// ErrorKindInvalidStructure means the API reported success but the item list was missing.
	ErrorKindInvalidStructure ErrorKind = "invalid_structure"
)

// NetworkError is returned when the request could not be completed.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("favorites request failed: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Kind returns ErrorKindNetwork.
func (e *NetworkError) Kind() ErrorKind { return ErrorKindNetwork }

// MalformedResponseError is returned when the response body cannot be decoded.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed favorites response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Kind returns ErrorKindMalformed.
func (e *MalformedResponseError) Kind() ErrorKind { return ErrorKindMalformed }

// APIError carries an application-level error status reported by the API.
type APIError struct {
	// Code is the status code from the envelope. Zero when the field was absent.
	Code int

	// Message is the server-supplied message, possibly empty.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("favorites API error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("favorites API error (code %d)", e.Code)
}

// Kind returns ErrorKindAPI.
func (e *APIError) Kind() ErrorKind { return ErrorKindAPI }

// InvalidStructureError is returned when a successful response has no item list.
type InvalidStructureError struct {
	// Field names the missing part of the envelope ("data" or "data.medias").
	Field string
}

// Error implements the error interface.
func (e *InvalidStructureError) Error() string {
	return fmt.Sprintf("invalid favorites response structure: missing %s", e.Field)
}

// Kind returns ErrorKindInvalidStructure.
func (e *InvalidStructureError) Kind() ErrorKind { return ErrorKindInvalidStructure }

// KindOf reports the ErrorKind of err, or "" when err is not a fetch error.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
