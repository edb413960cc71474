package service

import "errors"

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrInsufficientStock = errors.New("insufficient stock") // 400
	ErrEmptyCart         = errors.New("empty cart")         // 400
	ErrConflict          = errors.New("conflict")           // 409
)
