package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	kv := []any{TenantID, "t1", "count", 3, RequestID, "r1", "dangling"}

	assert.Equal(t, "t1", ExtractString(kv, TenantID))
	assert.Equal(t, "r1", ExtractString(kv, RequestID))
	assert.Empty(t, ExtractString(kv, "count"), "non-string value")
	assert.Empty(t, ExtractString(kv, "dangling"), "key without value")
	assert.Empty(t, ExtractString(nil, TenantID))
}
