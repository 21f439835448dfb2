//go:build integration

package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/pkg/platform/sentinel"
	"verigate/pkg/testutil/containers"
)

func TestRedisKeyIndex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	index := NewRedisKeyIndex(rc.Client)

	_, err := index.Get(ctx, "doc_1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, index.Put(ctx, "doc_1", "organizations/t/other/2026/03/doc_1.pdf"))
	key, err := index.Get(ctx, "doc_1")
	require.NoError(t, err)
	assert.Equal(t, "organizations/t/other/2026/03/doc_1.pdf", key)

	require.NoError(t, index.Delete(ctx, "doc_1"))
	_, err = index.Get(ctx, "doc_1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
