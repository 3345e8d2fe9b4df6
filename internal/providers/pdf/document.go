package pdf

import (
	"context"
	"errors"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrEmptyTitle = errors.New("empty_title")

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) RenderDocument(ctx context.Context, data DocumentData) ([]byte, error) {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).
		WithRightMargin(20).
		WithTopMargin(20).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	meta := make([]string, 0, 2)
	if author := strings.TrimSpace(data.Author); author != "" {
		meta = append(meta, author)
	}
	if !data.GeneratedAt.IsZero() {
		meta = append(meta, data.GeneratedAt.UTC().Format("2 January 2006"))
	}
	if len(meta) > 0 {
		m.AddRow(8,
			text.NewCol(12, strings.Join(meta, " · "), props.Text{Size: 9, Style: fontstyle.Italic}),
		)
	}
	m.AddRow(4, col.New(12))

	for _, para := range paragraphs(data.Body) {
		m.AddAutoRow(
			text.NewCol(12, para, props.Text{Size: 11, Top: 2, Bottom: 2}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// paragraphs splits body on blank lines and folds single newlines into
// spaces.
func paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.Join(strings.Fields(block), " ")
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
