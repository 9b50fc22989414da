package model

import "errors"

var (
	ErrTransportDisabled = errors.New("onebot transport disabled")
	ErrPersonNotFound    = errors.New("person not found")
)
