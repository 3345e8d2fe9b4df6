package pdf

import (
	"context"
	"time"
)

// DocumentData is the printable form of a document.
type DocumentData struct {
	Title       string
	Body        string
	Author      string
	GeneratedAt time.Time
}

type Provider interface {
	RenderDocument(ctx context.Context, data DocumentData) ([]byte, error)
}
