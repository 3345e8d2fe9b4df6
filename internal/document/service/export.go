package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/internal/providers/pdf"
	"go.uber.org/zap"
)

var (
	blockTags = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|blockquote)>|<br\s*/?>`)
	anyTag    = regexp.MustCompile(`<[^>]*>`)
)

func (s *Service) ExportPDF(ctx context.Context, accountID, id snowflake.ID) (*documentdomain.Export, error) {
	doc, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	body, err := s.pdf.RenderDocument(ctx, pdf.DocumentData{
		Title:       doc.Title,
		Body:        plainText(doc.Content),
		GeneratedAt: s.clock.Now(),
	})
	if err != nil {
		s.log.Error("pdf render failed", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return &documentdomain.Export{
		Filename:    exportFilename(doc.Title),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

// plainText turns editor HTML into paragraphs separated by blank lines.
func plainText(content string) string {
	text := blockTags.ReplaceAllString(content, "\n\n")
	text = anyTag.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(text))
}

func exportFilename(title string) string {
	name := slug.Make(title)
	if name == "" {
		name = "document"
	}
	return name + ".pdf"
}
