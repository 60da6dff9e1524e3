package conversation

import (
	"context"
	"testing"
	"time"

	"fundilink/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *RedisContextStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisContextStore(client)
}

func TestGetMissingContext(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Get(context.Background(), "254700000001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	convCtx := &models.ConversationContext{
		Phone: "254700000001",
		Stage: models.StageAwaitingClarification,
		Draft: models.BookingDraft{ServiceCategory: "plumber"},
	}
	require.NoError(t, store.Put(ctx, convCtx))
	assert.Equal(t, int64(1), convCtx.Version)

	got, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StageAwaitingClarification, got.Stage)
	assert.Equal(t, "plumber", got.Draft.ServiceCategory)
	assert.Equal(t, int64(1), got.Version)
}

func TestCompareAndSwapBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	convCtx := &models.ConversationContext{Phone: "254700000001", Stage: models.StageInitial}
	require.NoError(t, store.CompareAndSwap(ctx, convCtx))
	assert.Equal(t, int64(1), convCtx.Version)

	convCtx.Stage = models.StageFundiSelection
	require.NoError(t, store.CompareAndSwap(ctx, convCtx))
	assert.Equal(t, int64(2), convCtx.Version)

	got, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)
	assert.Equal(t, models.StageFundiSelection, got.Stage)
}

func TestCompareAndSwapDetectsConcurrentWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := &models.ConversationContext{Phone: "254700000001", Stage: models.StageInitial}
	require.NoError(t, store.Put(ctx, base))

	// Two handlers read the same version.
	first, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)
	second, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)

	first.Stage = models.StageFundiSelection
	require.NoError(t, store.CompareAndSwap(ctx, first))

	second.Stage = models.StageCancellationConfirmation
	err = store.CompareAndSwap(ctx, second)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The first write stands.
	got, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)
	assert.Equal(t, models.StageFundiSelection, got.Stage)
}

func TestContextExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := &RedisContextStore{Client: client, TTL: time.Minute}
	ctx := context.Background()

	convCtx := &models.ConversationContext{Phone: "254700000001", Stage: models.StageFundiSelection}
	require.NoError(t, store.Put(ctx, convCtx))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "254700000001")
	require.NoError(t, err)
	assert.Nil(t, got)
}
