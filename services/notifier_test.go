package services

import (
	"context"
	"testing"
	"time"

	"engagement-prediction-api/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierInProcessDelivery(t *testing.T) {
	n := NewNotifier(&CacheService{}, 3*time.Second)
	ctx := context.Background()

	ch, cancel := n.Subscribe(ctx, "page-1")
	defer cancel()
	other, cancelOther := n.Subscribe(ctx, "page-2")
	defer cancelOther()

	require.NoError(t, n.Notify(ctx, "page-1", "Loaded: Facebook poll (6222 engagement)", models.ToastSuccess))

	select {
	case toast := <-ch:
		assert.Equal(t, "Loaded: Facebook poll (6222 engagement)", toast.Message)
		assert.Equal(t, models.ToastSuccess, toast.Kind)
		assert.Equal(t, int64(3000), toast.TTLMS)
	case <-time.After(time.Second):
		t.Fatal("toast not delivered")
	}

	select {
	case toast := <-other:
		t.Fatalf("toast leaked to another page: %+v", toast)
	default:
	}
}

func TestNotifierEmptyClientIsNoop(t *testing.T) {
	n := NewNotifier(&CacheService{}, time.Second)
	assert.NoError(t, n.Notify(context.Background(), "", "ignored", models.ToastError))
}

func TestNotifierUnsubscribeOnContextCancel(t *testing.T) {
	n := NewNotifier(&CacheService{}, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := n.Subscribe(ctx, "page-1")
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Empty(t, n.subs)
}

func TestNotifierPublishesThroughRedis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	n := NewNotifier(NewCacheServiceWithClient(db), 3*time.Second)

	mock.ExpectPublish("engagement:toasts:page-9",
		[]byte(`{"message":"Please fill in all required fields","kind":"error","ttl_ms":3000}`)).SetVal(1)

	err := n.Notify(context.Background(), "page-9", "Please fill in all required fields", models.ToastError)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
