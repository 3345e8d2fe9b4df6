package domain

import "errors"

var (
	// ErrNotFound covers unknown, expired and revoked links alike.
	ErrNotFound          = errors.New("share_link_not_found")
	ErrDocumentNotFound  = errors.New("document_not_found")
	ErrInvalidPermission = errors.New("invalid_permission")
	ErrInvalidExpiry     = errors.New("invalid_expiry")
	ErrReadOnly          = errors.New("share_link_read_only")
)
