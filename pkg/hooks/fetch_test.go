package hooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func waitReady[T any](t *testing.T, f *Fetch[T]) {
	t.Helper()
	require.Eventually(t, func() bool {
		s := f.state.Peek()
		return s == Ready || s == Error
	}, 2*time.Second, 5*time.Millisecond)
}

func TestUseFetchLoadsJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"ada"}`))
	}))
	defer ts.Close()

	f := UseFetch[user](ts.Client(), ts.URL)
	waitReady(t, f)

	assert.True(t, f.IsReady())
	assert.False(t, f.IsError())
	assert.Equal(t, user{ID: 1, Name: "ada"}, f.Data())
	assert.NoError(t, f.Err())
}

func TestUseFetchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := UseFetch[user](ts.Client(), ts.URL)
	waitReady(t, f)

	assert.True(t, f.IsError())
	assert.Error(t, f.Err())
	assert.Equal(t, user{Name: "anon"}, f.DataOr(user{Name: "anon"}))
}

func TestUseFetchFuncRetries(t *testing.T) {
	var attempts atomic.Int32
	f := UseFetchFunc(func(ctx context.Context) (int, error) {
		if attempts.Add(1) < 3 {
			return 0, errors.New("transient")
		}
		return 99, nil
	}, RetryOnError[int](3, 5*time.Millisecond))

	waitReady(t, f)
	assert.True(t, f.IsReady())
	assert.Equal(t, 99, f.Data())
	assert.Equal(t, int32(3), attempts.Load())
}

func TestUseFetchFuncRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	sentinel := errors.New("down")
	var seen error
	f := UseFetchFunc(func(ctx context.Context) (int, error) {
		attempts.Add(1)
		return 0, sentinel
	}, RetryOnError[int](2, time.Millisecond), OnError[int](func(err error) { seen = err }))

	waitReady(t, f)
	assert.True(t, f.IsError())
	assert.ErrorIs(t, f.Err(), sentinel)
	assert.ErrorIs(t, seen, sentinel)
	assert.Equal(t, int32(3), attempts.Load(), "1 attempt + 2 retries")
}

func TestUseFetchStaleTime(t *testing.T) {
	var hits atomic.Int32
	f := UseFetchFunc(func(ctx context.Context) (int, error) {
		return int(hits.Add(1)), nil
	}, StaleTime[int](time.Hour))

	waitReady(t, f)
	require.Equal(t, int32(1), hits.Load())

	// Within the stale window Fetch is a no-op.
	f.Fetch()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())

	// Invalidate forces the next Fetch through.
	f.Invalidate()
	f.Fetch()
	require.Eventually(t, func() bool {
		return hits.Load() == 2
	}, time.Second, 5*time.Millisecond)

	// Refetch always bypasses.
	f.Refetch()
	require.Eventually(t, func() bool {
		return hits.Load() == 3
	}, time.Second, 5*time.Millisecond)
}

func TestUseFetchMutate(t *testing.T) {
	f := UseFetchFunc(func(ctx context.Context) (int, error) {
		return 10, nil
	})
	waitReady(t, f)

	f.Mutate(func(v int) int { return v + 5 })
	assert.Equal(t, 15, f.Data())
}

func TestUseFetchOnSuccess(t *testing.T) {
	got := make(chan int, 1)
	f := UseFetchFunc(func(ctx context.Context) (int, error) {
		return 7, nil
	}, OnSuccess[int](func(v int) { got <- v }))
	waitReady(t, f)

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	default:
		t.Fatal("OnSuccess was not called")
	}
}

func TestUseFetchAbandonedOnDispose(t *testing.T) {
	scope := newHookScope(t)

	release := make(chan struct{})
	var f *Fetch[int]
	reactive.WithScope(scope, func() {
		f = UseFetchFunc(func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
	})

	scope.Dispose()
	close(release)

	time.Sleep(30 * time.Millisecond)
	assert.NotEqual(t, Ready, f.state.Peek(), "disposed fetch still landed its result")
}
