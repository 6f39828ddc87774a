package service

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPlatform = errors.New("platform is not supported")
	ErrUpstream        = errors.New("upstream provider failure")
)
