package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	assert.Nil(t, New("", "", 0))
}

func TestClient_NilIsAlwaysEmpty(t *testing.T) {
	var c *Client
	ctx := context.Background()

	c.SetJSON(ctx, "product:1", map[string]int{"a": 1}, time.Minute)

	var dst map[string]int
	assert.False(t, c.GetJSON(ctx, "product:1", &dst))
	assert.Nil(t, dst)
	assert.NoError(t, c.Invalidate(ctx, "product:1"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestClient_UnreachableRedisBehavesAsMiss(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()
	ctx := context.Background()

	assert.Error(t, c.Ping(ctx))

	c.SetJSON(ctx, "reviews:count", 3, time.Minute)
	var total int64
	assert.False(t, c.GetJSON(ctx, "reviews:count", &total))
	assert.Zero(t, total)
}
