package repository

import "errors"

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrPositionOutOfRange = errors.New("ledger row position out of range")
)
