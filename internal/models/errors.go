package models

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrAuthentication     = errors.New("invalid username and/or password")
	ErrUnknownSymbol      = errors.New("invalid symbol")
	ErrInsufficientFunds  = errors.New("not enough funds")
	ErrInsufficientShares = errors.New("you do not own enough shares")
	ErrUserNotFound       = errors.New("user not found")
	ErrPersistence        = errors.New("persistence error")
)
