package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/repository"
)

func TestDomainRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewDomainRepository(db)
	ctx := context.Background()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &swfdomain.Domain{
		Name:                  "test-domain",
		Description:           "a domain",
		RetentionPeriodInDays: "60",
		Status:                registration.StatusRegistered,
		CreatedAt:             created,
	}
	require.NoError(t, repo.Create(ctx, "us-east-1", d))

	got, err := repo.Get(ctx, "us-east-1", "test-domain")
	require.NoError(t, err)
	require.Equal(t, "us-east-1", got.Region)
	require.Equal(t, "a domain", got.Description)
	require.Equal(t, "60", got.RetentionPeriodInDays)
	require.Equal(t, registration.StatusRegistered, got.Status)
	require.True(t, created.Equal(got.CreatedAt))
	require.Nil(t, got.DeprecatedAt)
}

func TestDomainRepository_Duplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewDomainRepository(db)
	ctx := context.Background()

	seedDomain(t, db, "us-east-1", "test-domain")
	err := repo.Create(ctx, "us-east-1", &swfdomain.Domain{
		Name: "test-domain", RetentionPeriodInDays: "1", Status: registration.StatusRegistered, CreatedAt: time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestDomainRepository_RegionIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewDomainRepository(db)
	ctx := context.Background()

	seedDomain(t, db, "us-east-1", "test-domain")
	seedDomain(t, db, "us-west-2", "test-domain")

	_, err := repo.Get(ctx, "eu-west-1", "test-domain")
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx, "us-west-2", registration.StatusRegistered)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDomainRepository_ListByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewDomainRepository(db)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		seedDomain(t, db, "us-east-1", name)
	}
	now := time.Now()
	require.NoError(t, repo.UpdateStatus(ctx, "us-east-1", "bravo", registration.StatusDeprecated, &now))
	require.ErrorIs(t, repo.UpdateStatus(ctx, "us-east-1", "bravo", registration.StatusDeprecated, &now), repository.ErrUnchanged)

	registered, err := repo.List(ctx, "us-east-1", registration.StatusRegistered)
	require.NoError(t, err)
	require.Len(t, registered, 2)
	require.Equal(t, "alpha", registered[0].Name)
	require.Equal(t, "charlie", registered[1].Name)

	deprecated, err := repo.List(ctx, "us-east-1", registration.StatusDeprecated)
	require.NoError(t, err)
	require.Len(t, deprecated, 1)
	require.NotNil(t, deprecated[0].DeprecatedAt)
}

func TestDomainRepository_UpdateStatusUnknown(t *testing.T) {
	db := NewTestDB(t)
	repo := NewDomainRepository(db)

	err := repo.UpdateStatus(context.Background(), "us-east-1", "missing", registration.StatusDeprecated, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
