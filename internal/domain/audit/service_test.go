package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/repository/mocks"
)

func TestAuditService_LogFillsDefaults(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	repo := &mocks.AuditRepository{}
	repo.On("Log", ctx, "eu-west-1", mock.Anything).Return(nil)
	pub := &mocks.Publisher{}
	pub.On("Publish", ctx, mock.Anything).Return(nil)

	svc := audit.NewService(repo, pub, clock, nil)
	entry := &audit.Entry{Domain: "d", Action: audit.ActionDomainRegistered}
	require.NoError(t, svc.Log(ctx, "eu-west-1", entry))

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "eu-west-1", entry.Region)
	assert.Equal(t, clock.Now(), entry.CreatedAt)
	pub.AssertCalled(t, "Publish", ctx, *entry)
}

func TestAuditService_PublishFailureIgnored(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.AuditRepository{}
	repo.On("Log", ctx, "us-east-1", mock.Anything).Return(nil)
	pub := &mocks.Publisher{}
	pub.On("Publish", ctx, mock.Anything).Return(errors.New("nats down"))

	svc := audit.NewService(repo, pub, nil, nil)
	require.NoError(t, svc.Log(ctx, "us-east-1", &audit.Entry{Action: audit.ActionDomainDeprecated}))
	pub.AssertExpectations(t)
}

func TestAuditService_StoreFailure(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.AuditRepository{}
	repo.On("Log", ctx, "us-east-1", mock.Anything).Return(errors.New("disk full"))
	pub := &mocks.Publisher{}

	svc := audit.NewService(repo, pub, nil, nil)
	require.Error(t, svc.Log(ctx, "us-east-1", &audit.Entry{Action: audit.ActionDomainDeprecated}))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAuditService_LogRequiresAction(t *testing.T) {
	svc := audit.NewService(&mocks.AuditRepository{}, nil, nil, nil)
	require.ErrorIs(t, svc.Log(context.Background(), "us-east-1", &audit.Entry{}), audit.ErrInvalidInput)
}

func TestAuditService_Recent(t *testing.T) {
	ctx := context.Background()
	opts := audit.ListOptions{Domain: "d", Limit: 2}

	repo := &mocks.AuditRepository{}
	repo.On("List", ctx, "us-east-1", opts).Return([]audit.Entry{
		{ID: "2", Action: audit.ActionDomainDeprecated},
		{ID: "1", Action: audit.ActionDomainRegistered},
	}, nil)

	svc := audit.NewService(repo, nil, nil, nil)
	entries, err := svc.Recent(ctx, "us-east-1", opts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].ID)

	repo.On("List", ctx, "eu-west-1", opts).Return(nil, errors.New("closed"))
	_, err = svc.Recent(ctx, "eu-west-1", opts)
	require.Error(t, err)
}
