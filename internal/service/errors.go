package service

import "errors"

var (
	ErrTickerNotFound = errors.New("error ticker not found")
)
