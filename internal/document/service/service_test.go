package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/quill/internal/clock"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/internal/document/repository"
	"github.com/smallbiznis/quill/internal/providers/pdf"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	quotamocks "github.com/smallbiznis/quill/internal/quota/domain/mocks"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"github.com/smallbiznis/quill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const owner = snowflake.ID(42)

func setupService(t *testing.T) (*Service, *quotamocks.MockTracker, *clock.FakeClock) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tracker := quotamocks.NewMockTracker(gomock.NewController(t))
	clk := clock.NewFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
		Quota: tracker,
		PDF:   pdf.New(),
	})
	return svc, tracker, clk
}

func allowDocuments(tracker *quotamocks.MockTracker) {
	tracker.EXPECT().Require(gomock.Any(), owner, quotadomain.ResourceDocument).Return(nil).AnyTimes()
}

func TestCreateDefaultsToArticle(t *testing.T) {
	svc, tracker, _ := setupService(t)
	allowDocuments(tracker)

	doc, err := svc.Create(context.Background(), owner, documentdomain.CreateRequest{Title: "  Notes  ", Content: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, documentdomain.TypeArticle, doc.Type)
	assert.Equal(t, documentdomain.StatusDraft, doc.Status)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, documentdomain.CitationAPA, doc.AcademicInfo.Data().CitationStyle)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  documentdomain.CreateRequest
		want error
	}{
		{"blank title", documentdomain.CreateRequest{Title: " "}, documentdomain.ErrInvalidTitle},
		{"unknown type", documentdomain.CreateRequest{Title: "x", Type: "poem"}, documentdomain.ErrInvalidType},
		{"academic without style", documentdomain.CreateRequest{Title: "x", Type: "thesis"}, documentdomain.ErrCitationStyleRequired},
		{"bad style", documentdomain.CreateRequest{
			Title:        "x",
			Type:         "memoir",
			AcademicInfo: &documentdomain.AcademicInfo{CitationStyle: "ieee"},
		}, documentdomain.ErrInvalidCitationStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupService(t)
			_, err := svc.Create(context.Background(), owner, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateRefusedAtDocumentLimit(t *testing.T) {
	svc, tracker, _ := setupService(t)
	tracker.EXPECT().Require(gomock.Any(), owner, quotadomain.ResourceDocument).Return(&quotadomain.LimitError{
		Resource: quotadomain.ResourceDocument,
		Tier:     subscriptiondomain.TierRestricted,
		Limit:    5,
	})

	_, err := svc.Create(context.Background(), owner, documentdomain.CreateRequest{Title: "sixth"})
	require.ErrorIs(t, err, quotadomain.ErrLimitReached)

	items, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateMergesAcademicInfo(t *testing.T) {
	ctx := context.Background()
	svc, tracker, clk := setupService(t)
	allowDocuments(tracker)

	doc, err := svc.Create(ctx, owner, documentdomain.CreateRequest{
		Title: "Thesis",
		Type:  "thesis",
		AcademicInfo: &documentdomain.AcademicInfo{
			CitationStyle: documentdomain.CitationChicago,
			References:    []documentdomain.Reference{{Title: "Origins"}},
		},
	})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	content := "rewritten"
	updated, err := svc.Update(ctx, owner, doc.ID, documentdomain.UpdateRequest{
		Content:      &content,
		AcademicInfo: &documentdomain.AcademicInfo{CitationStyle: documentdomain.CitationMLA},
	})
	require.NoError(t, err)
	assert.Equal(t, "Thesis", updated.Title)
	assert.Equal(t, "rewritten", updated.Content)
	assert.Equal(t, 2, updated.Version)
	assert.True(t, clk.Now().Equal(updated.LastEditedAt))

	info := updated.AcademicInfo.Data()
	assert.Equal(t, documentdomain.CitationMLA, info.CitationStyle)
	require.Len(t, info.References, 1, "references survive a partial merge")

	stored, err := svc.Get(ctx, owner, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, documentdomain.CitationMLA, stored.AcademicInfo.Data().CitationStyle)
}

func TestUpdateIgnoresAcademicInfoForArticles(t *testing.T) {
	ctx := context.Background()
	svc, tracker, _ := setupService(t)
	allowDocuments(tracker)

	doc, err := svc.Create(ctx, owner, documentdomain.CreateRequest{Title: "Post"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, doc.ID, documentdomain.UpdateRequest{
		AcademicInfo: &documentdomain.AcademicInfo{CitationStyle: documentdomain.CitationMLA},
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.CitationAPA, updated.AcademicInfo.Data().CitationStyle)
}

func TestOwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	svc, tracker, _ := setupService(t)
	allowDocuments(tracker)

	doc, err := svc.Create(ctx, owner, documentdomain.CreateRequest{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner+1, doc.ID)
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner+1, doc.ID), documentdomain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner, doc.ID))
	_, err = svc.Get(ctx, owner, doc.ID)
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)
}

func TestExportPDF(t *testing.T) {
	ctx := context.Background()
	svc, tracker, _ := setupService(t)
	allowDocuments(tracker)

	doc, err := svc.Create(ctx, owner, documentdomain.CreateRequest{
		Title:   "Café & Société: Notes",
		Content: "<h1>Intro</h1><p>First &amp; foremost.</p><p>Second.</p>",
	})
	require.NoError(t, err)

	export, err := svc.ExportPDF(ctx, owner, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "cafe-and-societe-notes.pdf", export.Filename)
	assert.Equal(t, "application/pdf", export.ContentType)
	assert.True(t, bytes.HasPrefix(export.Body, []byte("%PDF")))
}

func TestPlainText(t *testing.T) {
	got := plainText("<h2>Title</h2><p>One &lt;two&gt;</p>line<br/>break")
	assert.Equal(t, "Title\n\nOne <two>\n\nline\n\nbreak", got)
}

func TestExportFilenameFallback(t *testing.T) {
	assert.Equal(t, "document.pdf", exportFilename("???"))
}
