package service

import (
	"context"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/constructbms/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkService_Create(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "LNK01")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "Frame"))
	b := seedTask(t, r, testutil.NewTestTask(p.ID, "Roof"))
	svc := NewLinkService(r.links, r.tasks)

	l := &domain.Link{SourceTaskID: a.ID, TargetTaskID: b.ID, Lag: 2}
	require.NoError(t, svc.Create(ctx, l))
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, p.ID, l.ProjectID, "project taken from the source task")
	assert.Equal(t, domain.LinkFinishToStart, l.Type)

	links, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 2.0, links[0].Lag)

	require.NoError(t, svc.Delete(ctx, l.ID))
	links, err = svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestLinkService_Create_Rejects(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "LNK02")
	other := seedProject(t, r, "LNK03")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "Frame"))
	x := seedTask(t, r, testutil.NewTestTask(other.ID, "Elsewhere"))
	svc := NewLinkService(r.links, r.tasks)

	tests := []struct {
		name string
		link *domain.Link
		want string
	}{
		{"bad type", &domain.Link{SourceTaskID: a.ID, TargetTaskID: x.ID, Type: "sideways"}, "invalid link type"},
		{"self link", &domain.Link{SourceTaskID: a.ID, TargetTaskID: a.ID}, "itself"},
		{"missing endpoint", &domain.Link{SourceTaskID: a.ID, TargetTaskID: "missing"}, "not found"},
		{"cross project", &domain.Link{SourceTaskID: a.ID, TargetTaskID: x.ID}, "another project"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorContains(t, svc.Create(ctx, tc.link), tc.want)
		})
	}

	links, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestLinkService_SurvivesTaskDelete(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "LNK04")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "Frame"))
	b := seedTask(t, r, testutil.NewTestTask(p.ID, "Roof"))
	svc := NewLinkService(r.links, r.tasks)
	require.NoError(t, svc.Create(ctx, &domain.Link{SourceTaskID: a.ID, TargetTaskID: b.ID}))

	require.NoError(t, r.tasks.Delete(ctx, a.ID))

	links, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1, "dangling links stay and are ignored by analysis")

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), repository.ErrNotFound)
}
