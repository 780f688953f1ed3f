package integration_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/app"
	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/redisstore"
	"github.com/rpggio/loom/internal/seed"
	"github.com/rpggio/loom/internal/sqlite"
)

type store struct {
	name  string
	repos func(t *testing.T) app.Repositories
}

var stores = []store{
	{name: "sqlite", repos: func(t *testing.T) app.Repositories {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
		db, err := sqlite.New(dsn)
		require.NoError(t, err)
		require.NoError(t, db.RunMigrations())
		t.Cleanup(func() { _ = db.Close() })
		return app.SQLiteRepositories(db)
	}},
	{name: "sqlite-file", repos: func(t *testing.T) app.Repositories {
		db, err := sqlite.New(filepath.Join(t.TempDir(), "loom.db"))
		require.NoError(t, err)
		require.NoError(t, db.RunMigrations())
		t.Cleanup(func() { _ = db.Close() })
		return app.SQLiteRepositories(db)
	}},
	{name: "redis", repos: func(t *testing.T) app.Repositories {
		mr := miniredis.RunT(t)
		client, err := redisstore.Open(context.Background(), mr.Addr(), "", 0)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		return app.RedisRepositories(client, redisstore.DefaultPrefix)
	}},
}

func forEachStore(t *testing.T, fn func(t *testing.T, svcs app.Services)) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			fn(t, app.NewServices(s.repos(t), app.Deps{Clock: clockwork.NewFakeClock()}))
		})
	}
}

func TestIntegration_RegistryLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()
		const region = "us-east-1"

		_, err := svcs.Domains.Register(ctx, region, swfdomain.RegisterRequest{Name: "orders", RetentionPeriodInDays: "30"})
		require.NoError(t, err)

		for _, name := range []string{"b-activity", "a-activity", "c-activity"} {
			_, err := svcs.ActivityTypes.Register(ctx, region, activitytype.RegisterRequest{Domain: "orders", Name: name, Version: "1"})
			require.NoError(t, err)
		}
		_, err = svcs.ActivityTypes.Register(ctx, region, activitytype.RegisterRequest{Domain: "orders", Name: "a-activity", Version: "1"})
		require.ErrorIs(t, err, activitytype.ErrTypeAlreadyExists)

		res, err := svcs.ActivityTypes.List(ctx, region, activitytype.ListRequest{Domain: "orders", Status: registration.StatusRegistered})
		require.NoError(t, err)
		require.Len(t, res.Types, 3)
		require.Equal(t, "a-activity", res.Types[0].Name)
		require.Equal(t, "c-activity", res.Types[2].Name)

		ref := registration.TypeRef{Name: "b-activity", Version: "1"}
		require.NoError(t, svcs.ActivityTypes.Deprecate(ctx, region, "orders", ref))
		require.ErrorIs(t, svcs.ActivityTypes.Deprecate(ctx, region, "orders", ref), activitytype.ErrTypeDeprecated)

		deprecated, err := svcs.ActivityTypes.List(ctx, region, activitytype.ListRequest{Domain: "orders", Status: registration.StatusDeprecated})
		require.NoError(t, err)
		require.Len(t, deprecated.Types, 1)
		require.NotNil(t, deprecated.Types[0].DeprecatedAt)

		_, err = svcs.WorkflowTypes.Register(ctx, region, workflowtype.RegisterRequest{
			Domain:        "orders",
			Name:          "place-order",
			Version:       "1",
			Configuration: workflowtype.Configuration{DefaultChildPolicy: workflowtype.ChildPolicyAbandon},
		})
		require.NoError(t, err)
		wt, err := svcs.WorkflowTypes.Describe(ctx, region, "orders", registration.TypeRef{Name: "place-order", Version: "1"})
		require.NoError(t, err)
		require.Equal(t, workflowtype.ChildPolicyAbandon, wt.Configuration.DefaultChildPolicy)

		entries, err := svcs.Audit.Recent(ctx, region, audit.ListOptions{Domain: "orders", Limit: 2})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, audit.ActionWorkflowTypeRegistered, entries[0].Action)
		require.Equal(t, audit.ActionActivityTypeDeprecated, entries[1].Action)
	})
}

func TestIntegration_UnknownDomain(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()

		_, err := svcs.ActivityTypes.Register(ctx, "us-east-1", activitytype.RegisterRequest{Domain: "missing", Name: "a", Version: "1"})
		require.ErrorIs(t, err, swfdomain.ErrDomainNotFound)

		_, err = svcs.WorkflowTypes.Describe(ctx, "us-east-1", "missing", registration.TypeRef{Name: "a", Version: "1"})
		require.ErrorIs(t, err, swfdomain.ErrDomainNotFound)
	})
}

func TestIntegration_RegionIsolation(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()

		_, err := svcs.Domains.Register(ctx, "us-east-1", swfdomain.RegisterRequest{Name: "orders", RetentionPeriodInDays: "NONE"})
		require.NoError(t, err)
		_, err = svcs.Domains.Register(ctx, "eu-west-1", swfdomain.RegisterRequest{Name: "orders", RetentionPeriodInDays: "NONE"})
		require.NoError(t, err)

		require.NoError(t, svcs.Domains.Deprecate(ctx, "eu-west-1", "orders"))

		east, err := svcs.Domains.Describe(ctx, "us-east-1", "orders")
		require.NoError(t, err)
		require.Equal(t, registration.StatusRegistered, east.Status)
	})
}

func TestIntegration_SeedIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()
		loader := svcs.Seeder("us-east-1", nil)

		fixture := "domains:\n  - name: orders\n    activity_types:\n      - name: charge\n        version: \"1\"\n"
		f, err := seed.Parse(strings.NewReader(fixture))
		require.NoError(t, err)

		first, err := loader.Apply(ctx, f)
		require.NoError(t, err)
		require.Equal(t, 2, first.Created)

		second, err := loader.Apply(ctx, f)
		require.NoError(t, err)
		require.Equal(t, 0, second.Created)
		require.Equal(t, 2, second.Skipped)
	})
}

func TestIntegration_ConcurrentDeprecateSucceedsOnce(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()
		const region = "us-east-1"
		ref := registration.TypeRef{Name: "test-activity", Version: "v1.0"}

		_, err := svcs.Domains.Register(ctx, region, swfdomain.RegisterRequest{Name: "orders", RetentionPeriodInDays: "NONE"})
		require.NoError(t, err)
		_, err = svcs.ActivityTypes.Register(ctx, region, activitytype.RegisterRequest{Domain: "orders", Name: ref.Name, Version: ref.Version})
		require.NoError(t, err)

		const callers = 16
		errs := make(chan error, callers)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				errs <- svcs.ActivityTypes.Deprecate(ctx, region, "orders", ref)
			}()
		}
		close(start)
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, activitytype.ErrTypeDeprecated)
		}
		require.Equal(t, 1, succeeded)

		action := audit.ActionActivityTypeDeprecated
		entries, err := svcs.Audit.Recent(ctx, region, audit.ListOptions{Domain: "orders", Action: &action})
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})
}

func TestIntegration_ConcurrentRegistrations(t *testing.T) {
	forEachStore(t, func(t *testing.T, svcs app.Services) {
		ctx := context.Background()
		const region = "us-east-1"

		_, err := svcs.Domains.Register(ctx, region, swfdomain.RegisterRequest{Name: "orders", RetentionPeriodInDays: "NONE"})
		require.NoError(t, err)

		const callers = 32
		errs := make(chan error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svcs.ActivityTypes.Register(ctx, region, activitytype.RegisterRequest{
					Domain:  "orders",
					Name:    fmt.Sprintf("activity-%02d", i),
					Version: "1",
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		res, err := svcs.ActivityTypes.List(ctx, region, activitytype.ListRequest{Domain: "orders", Status: registration.StatusRegistered})
		require.NoError(t, err)
		require.Len(t, res.Types, callers)
	})
}
