package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("session expired or invalid, log in again")
	ErrRejected     = errors.New("request rejected")
)
