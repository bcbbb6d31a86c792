package service

import "errors"

var (
	ErrRunInProgress = errors.New("sync run is already in progress")
)
