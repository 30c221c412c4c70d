package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoSteps           = errors.New("recipe has no steps")
	ErrNoActiveRecipe    = errors.New("no recipe selected")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrNotImplemented    = errors.New("not implemented")
)
