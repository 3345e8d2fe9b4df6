package domain

import "errors"

var (
	ErrNotFound              = errors.New("document_not_found")
	ErrInvalidTitle          = errors.New("invalid_title")
	ErrInvalidType           = errors.New("invalid_document_type")
	ErrCitationStyleRequired = errors.New("citation_style_required")
	ErrInvalidCitationStyle  = errors.New("invalid_citation_style")
)
