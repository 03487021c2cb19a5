package shortener

import "errors"

var (
	// ErrInvalidInput is returned for long URLs that are blank or not http(s).
	ErrInvalidInput = errors.New("invalid url format, provide a valid http or https url")
	// ErrNotFound is returned when a code has no backing record.
	ErrNotFound = errors.New("short url not found")

	ErrCreationFailure    = errors.New("could not shorten the url")
	ErrResolutionFailure  = errors.New("could not resolve the short url")
	ErrRetrievalFailure   = errors.New("could not retrieve urls")
	ErrCodeSpaceExhausted = errors.New("no free short code found")
)

// Uniqueness violations reported by Repository.Insert.
var (
	ErrCodeTaken = errors.New("short code already exists")
	ErrURLTaken  = errors.New("long url already shortened")
)
