package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, e.g. an IATA code with no matching airport.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a blank airport code).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
