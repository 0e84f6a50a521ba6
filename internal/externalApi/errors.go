package externalApi

import "errors"

var (
	ErrNotFound     = errors.New("error ticker not found")
	ErrEmptyHistory = errors.New("error empty history")
)
