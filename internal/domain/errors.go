package domain

import "errors"

var (
	// ErrRetailerNotFound is returned when no extraction tier produces a record for a retailer
	ErrRetailerNotFound = errors.New("no result found for retailer")

	// ErrSearchAPIFailure is returned when the search provider request fails
	ErrSearchAPIFailure = errors.New("search API request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRowOutOfRange is returned when an edit targets a row index outside the table
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrSessionNotFound is returned when no session exists for the presented ID
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnauthorized is returned when credentials or the session are not valid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyTable is returned when an export is requested before any search
	ErrEmptyTable = errors.New("comparison table is empty")
)
