package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "bike:1", []byte("{}"), time.Minute))

	_, err := c.Get(ctx, "bike:1")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Delete(ctx, "bike:1"))
}
