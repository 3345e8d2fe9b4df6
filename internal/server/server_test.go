package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/auth"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/clock"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	quotamocks "github.com/smallbiznis/quill/internal/quota/domain/mocks"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	subscriptionmocks "github.com/smallbiznis/quill/internal/subscription/domain/mocks"
	"github.com/stretchr/testify/require"
)

const testAccountID = snowflake.ID(1001)

type fakeAccountService struct {
	accounts    map[snowflake.ID]*accountdomain.Account
	registerErr error
	deleted     []snowflake.ID
}

func (f *fakeAccountService) Register(ctx context.Context, req accountdomain.RegisterRequest) (*accountdomain.AuthResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &accountdomain.AuthResult{
		Token:   "issued-token",
		Account: accountdomain.Profile{ID: "2002", Email: req.Email, FirstName: req.FirstName},
	}, nil
}

func (f *fakeAccountService) Login(ctx context.Context, req accountdomain.LoginRequest) (*accountdomain.AuthResult, error) {
	return nil, accountdomain.ErrInvalidCredentials
}

func (f *fakeAccountService) Get(ctx context.Context, id snowflake.ID) (*accountdomain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, accountdomain.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeAccountService) Delete(ctx context.Context, id snowflake.ID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDocumentService struct {
	createErr error
	docs      map[snowflake.ID]*documentdomain.Document
}

func (f *fakeDocumentService) Create(ctx context.Context, accountID snowflake.ID, req documentdomain.CreateRequest) (*documentdomain.Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &documentdomain.Document{ID: 3003, AccountID: accountID, Title: req.Title, Type: documentdomain.TypeArticle}, nil
}

func (f *fakeDocumentService) List(ctx context.Context, accountID snowflake.ID) ([]*documentdomain.Document, error) {
	out := make([]*documentdomain.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeDocumentService) Get(ctx context.Context, accountID, id snowflake.ID) (*documentdomain.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.AccountID != accountID {
		return nil, documentdomain.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocumentService) Update(ctx context.Context, accountID, id snowflake.ID, req documentdomain.UpdateRequest) (*documentdomain.Document, error) {
	return f.Get(ctx, accountID, id)
}

func (f *fakeDocumentService) Delete(ctx context.Context, accountID, id snowflake.ID) error {
	_, err := f.Get(ctx, accountID, id)
	return err
}

func (f *fakeDocumentService) ExportPDF(ctx context.Context, accountID, id snowflake.ID) (*documentdomain.Export, error) {
	if _, err := f.Get(ctx, accountID, id); err != nil {
		return nil, err
	}
	return &documentdomain.Export{
		Filename:    "my-essay.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.4"),
	}, nil
}

type fakeFolderService struct {
	deleteErr error
	moved     []folderdomain.MoveRequest
}

func (f *fakeFolderService) Create(ctx context.Context, accountID snowflake.ID, req folderdomain.CreateRequest) (*folderdomain.Folder, error) {
	return &folderdomain.Folder{ID: 4004, AccountID: accountID, Name: req.Name, ParentID: req.ParentID}, nil
}

func (f *fakeFolderService) Structure(ctx context.Context, accountID snowflake.ID) (*folderdomain.Structure, error) {
	return &folderdomain.Structure{}, nil
}

func (f *fakeFolderService) Move(ctx context.Context, accountID snowflake.ID, req folderdomain.MoveRequest) error {
	f.moved = append(f.moved, req)
	return nil
}

func (f *fakeFolderService) Rename(ctx context.Context, accountID, id snowflake.ID, name string) (*folderdomain.Folder, error) {
	return &folderdomain.Folder{ID: id, AccountID: accountID, Name: name}, nil
}

func (f *fakeFolderService) Delete(ctx context.Context, accountID, id snowflake.ID) error {
	return f.deleteErr
}

type fakeShareService struct {
	links map[string]*sharedomain.SharedDocument
}

func (f *fakeShareService) Create(ctx context.Context, accountID, documentID snowflake.ID, req sharedomain.CreateRequest) (*sharedomain.Link, error) {
	permission, ok := sharedomain.ParsePermission(req.Permission)
	if !ok {
		return nil, sharedomain.ErrInvalidPermission
	}
	return &sharedomain.Link{ID: 5005, DocumentID: documentID, AccountID: accountID, Token: "abc", Permission: permission}, nil
}

func (f *fakeShareService) Resolve(ctx context.Context, token string) (*sharedomain.SharedDocument, error) {
	shared, ok := f.links[token]
	if !ok {
		return nil, sharedomain.ErrNotFound
	}
	return shared, nil
}

func (f *fakeShareService) List(ctx context.Context, accountID, documentID snowflake.ID) ([]*sharedomain.Link, error) {
	return nil, nil
}

func (f *fakeShareService) Revoke(ctx context.Context, accountID, linkID snowflake.ID) error {
	return nil
}

func (f *fakeShareService) UpdateShared(ctx context.Context, token string, req sharedomain.UpdateSharedRequest) (*sharedomain.SharedDocument, error) {
	shared, err := f.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if shared.Permission != sharedomain.PermissionEdit {
		return nil, sharedomain.ErrReadOnly
	}
	shared.Document.Content = req.Content
	return shared, nil
}

type fakeAssistantService struct {
	calls  int
	result *assistantdomain.AssistResult
	err    error
}

func (f *fakeAssistantService) Assist(ctx context.Context, accountID snowflake.ID, req assistantdomain.AssistRequest) (*assistantdomain.AssistResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeBillingService struct {
	webhookErr     error
	webhookPayload []byte
	cancelledID    *string
}

func (f *fakeBillingService) CreateCheckoutSession(ctx context.Context, accountID snowflake.ID) (*billingdomain.CheckoutSession, error) {
	return &billingdomain.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (f *fakeBillingService) CancelSubscription(ctx context.Context, accountID snowflake.ID, externalID string) error {
	f.cancelledID = &externalID
	return nil
}

func (f *fakeBillingService) CreatePortalSession(ctx context.Context, accountID snowflake.ID) (*billingdomain.PortalSession, error) {
	return nil, billingdomain.ErrNoCustomer
}

func (f *fakeBillingService) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	f.webhookPayload = payload
	return f.webhookErr
}

type testServer struct {
	srv       *Server
	router    *gin.Engine
	token     string
	accounts  *fakeAccountService
	documents *fakeDocumentService
	folders   *fakeFolderService
	shares    *fakeShareService
	assistant *fakeAssistantService
	billing   *fakeBillingService
	quota     *quotamocks.MockTracker
	projector *subscriptionmocks.MockProjector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	tokens := auth.NewTokenManagerWithSecret("test-secret", time.Hour, clock.NewSystem())
	token, err := tokens.Issue(testAccountID, "ada@example.com")
	require.NoError(t, err)

	ts := &testServer{
		token: token.Value,
		accounts: &fakeAccountService{accounts: map[snowflake.ID]*accountdomain.Account{
			testAccountID: {ID: testAccountID, Email: "ada@example.com", FirstName: "Ada"},
		}},
		documents: &fakeDocumentService{docs: map[snowflake.ID]*documentdomain.Document{
			3003: {ID: 3003, AccountID: testAccountID, Title: "My Essay", Type: documentdomain.TypeEssay},
		}},
		folders:   &fakeFolderService{},
		shares:    &fakeShareService{links: map[string]*sharedomain.SharedDocument{}},
		assistant: &fakeAssistantService{},
		billing:   &fakeBillingService{},
		quota:     quotamocks.NewMockTracker(ctrl),
		projector: subscriptionmocks.NewMockProjector(ctrl),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	ts.router = router
	ts.srv = &Server{
		engine:       router,
		tokens:       tokens,
		accountSvc:   ts.accounts,
		documentSvc:  ts.documents,
		folderSvc:    ts.folders,
		shareSvc:     ts.shares,
		assistantSvc: ts.assistant,
		billingSvc:   ts.billing,
		quota:        ts.quota,
		projector:    ts.projector,
	}
	ts.srv.registerAuthRoutes()
	ts.srv.registerAPIRoutes()
	ts.srv.registerShareRoutes()
	ts.srv.registerPaymentRoutes()
	return ts
}

func (ts *testServer) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out.Error
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out.Data
}
