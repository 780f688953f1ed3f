package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/repository"
)

func TestWorkflowTypeRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	seedDomain(t, db, "us-east-1", "test-domain")
	repo := NewWorkflowTypeRepository(db)
	ctx := context.Background()
	ref := registration.TypeRef{Name: "test-workflow", Version: "v1.0"}

	wt := &workflowtype.WorkflowType{
		Domain:  "test-domain",
		Name:    ref.Name,
		Version: ref.Version,
		Status:  registration.StatusRegistered,
		Configuration: workflowtype.Configuration{
			DefaultTaskList:    "queue",
			DefaultChildPolicy: workflowtype.ChildPolicyAbandon,
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, "us-east-1", wt))
	require.ErrorIs(t, repo.Create(ctx, "us-east-1", wt), repository.ErrAlreadyExists)

	got, err := repo.Get(ctx, "us-east-1", "test-domain", ref)
	require.NoError(t, err)
	require.Equal(t, workflowtype.ChildPolicyAbandon, got.Configuration.DefaultChildPolicy)

	now := time.Now()
	require.NoError(t, repo.UpdateStatus(ctx, "us-east-1", "test-domain", ref, registration.StatusDeprecated, &now))

	list, err := repo.List(ctx, "us-east-1", "test-domain", workflowtype.ListOptions{Status: registration.StatusDeprecated})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, ref.Name, list[0].Name)
}
