package externalApi

import "errors"

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrRejected         = errors.New("request rejected by marketplace")
	ErrFeedFileNotFound = errors.New("spreadsheet not found in feed archive")
	ErrFeedHeaderAbsent = errors.New("feed header row is absent")
)
