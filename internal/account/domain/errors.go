package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrPasswordTooShort   = errors.New("password_too_short")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)
