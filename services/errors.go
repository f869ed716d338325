package services

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
	ErrTagNotFound  = fmt.Errorf("tag %w", ErrNotFound)
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
)
