package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutAddr(t *testing.T) {
	assert.Nil(t, New("", time.Minute))
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *ReportCache
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))

	var dst map[string]int
	assert.False(t, c.GetJSON(ctx, "reports:dashboard", &dst))

	c.SetJSON(ctx, "reports:dashboard", map[string]int{"totalOrders": 3})
	c.Invalidate(ctx, "reports:dashboard", "reports:top-menu-items")
	assert.NoError(t, c.Close())
}

func TestGetJSONUnreachableRedis(t *testing.T) {
	c := New("127.0.0.1:1", 10*time.Millisecond)
	defer c.Close()

	var dst map[string]int
	assert.False(t, c.GetJSON(context.Background(), "reports:dashboard", &dst))
}
