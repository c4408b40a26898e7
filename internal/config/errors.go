package config

import "errors"

var (
	// ErrInvalidInput marks a plan file or request that fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRules marks a rule table that cannot be used for calculation.
	ErrInvalidRules = errors.New("invalid tax rules")
)
