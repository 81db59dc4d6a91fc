package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("upstream unavailable")
	ErrRateLimited = errors.New("rate limited")
)
