package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	accountrepo "github.com/smallbiznis/quill/internal/account/repository"
	"github.com/smallbiznis/quill/internal/config"
	"github.com/smallbiznis/quill/internal/providers/email"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"github.com/smallbiznis/quill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emailMock struct {
	mock.Mock
}

func (m *emailMock) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return m.Called(ctx, to, subject, htmlBody).Error(0)
}

func (m *emailMock) SendTemplate(ctx context.Context, to []string, templateName string, data email.TemplateData) error {
	return m.Called(ctx, to, templateName, data).Error(0)
}

func setup(t *testing.T) (*TrialNotifier, *emailMock) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&accountdomain.Account{}))

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	accounts := accountrepo.Provide()
	require.NoError(t, accounts.Insert(context.Background(), conn, &accountdomain.Account{
		ID:           snowflake.ID(7),
		Email:        "ada@example.com",
		FirstName:    "Ada",
		PasswordHash: "x",
		CycleAnchor:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	sender := &emailMock{}
	return NewTrialNotifier(TrialNotifierParam{
		DB:       conn,
		Log:      zap.NewNop(),
		Config:   config.Config{FrontendURL: "https://app.example.com/"},
		Accounts: accounts,
		Email:    sender,
	}), sender
}

func TestNotifyTrialWillEnd(t *testing.T) {
	n, sender := setup(t)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	sender.On("SendTemplate", mock.Anything, []string{"ada@example.com"}, "trial_will_end", mock.MatchedBy(func(data email.TemplateData) bool {
		return data.Fields["trial_end"] == "March 15, 2026" &&
			data.Fields["name"] == "Ada" &&
			data.Fields["manage_url"] == "https://app.example.com/dashboard/subscription"
	})).Return(nil).Once()

	err := n.NotifyTrialWillEnd(context.Background(), subscriptiondomain.Projection{
		AccountID:              7,
		ExternalSubscriptionID: "sub_1",
		CurrentPeriodEnd:       &end,
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifyUnknownAccount(t *testing.T) {
	n, sender := setup(t)

	err := n.NotifyTrialWillEnd(context.Background(), subscriptiondomain.Projection{AccountID: 404})
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)
	sender.AssertNotCalled(t, "SendTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifySendFailure(t *testing.T) {
	n, sender := setup(t)
	sender.On("SendTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("relay down"))

	err := n.NotifyTrialWillEnd(context.Background(), subscriptiondomain.Projection{AccountID: 7})
	assert.EqualError(t, err, "relay down")
}
