package invocationrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

func TestMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, action.Invocation{Action: fmt.Sprintf("a%d", i)}))
	}

	got, err = repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a5", "a4", "a3"}, names(got))

	got, err = repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a5", "a4"}, names(got))
}

func TestMemoryRepositoryPartiallyFilled(t *testing.T) {
	repo := NewMemoryRepository(4)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, action.Invocation{Action: "first"}))
	require.NoError(t, repo.Append(ctx, action.Invocation{Action: "second"}))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"second", "first"}, names(got))
}

func names(items []action.Invocation) []string {
	out := make([]string, len(items))
	for i, inv := range items {
		out[i] = inv.Action
	}
	return out
}
