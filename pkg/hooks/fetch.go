package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

// FetchState is the lifecycle of a fetched resource.
type FetchState int

const (
	Pending FetchState = iota // before the first fetch completes
	Loading                   // fetch in progress
	Ready                     // data loaded
	Error                     // fetch failed after retries
)

// Fetch manages asynchronous data loading into signals.
type Fetch[T any] struct {
	fetcher func(context.Context) (T, error)
	state   *reactive.Signal[FetchState]
	data    *reactive.Signal[T]
	err     *reactive.Signal[error]

	staleTime  time.Duration
	retryCount int
	retryDelay time.Duration
	onSuccess  func(T)
	onError    func(error)

	mu        sync.Mutex
	lastFetch time.Time
	fetchID   uint64
	closed    bool
}

// FetchOption configures a Fetch.
type FetchOption[T any] func(*Fetch[T])

// StaleTime sets how long loaded data satisfies Fetch() without a new
// request. Default: always refetch.
func StaleTime[T any](d time.Duration) FetchOption[T] {
	return func(f *Fetch[T]) {
		f.staleTime = d
	}
}

// RetryOnError retries a failed fetch count times with a fixed delay
// between attempts.
func RetryOnError[T any](count int, delay time.Duration) FetchOption[T] {
	return func(f *Fetch[T]) {
		f.retryCount = count
		f.retryDelay = delay
	}
}

// OnSuccess registers a callback for successful loads.
func OnSuccess[T any](fn func(T)) FetchOption[T] {
	return func(f *Fetch[T]) {
		f.onSuccess = fn
	}
}

// OnError registers a callback for failed loads.
func OnError[T any](fn func(error)) FetchOption[T] {
	return func(f *Fetch[T]) {
		f.onError = fn
	}
}

// UseFetchFunc creates a resource from an arbitrary fetcher. The first
// fetch starts immediately. Disposal of the current scope abandons any
// in-flight fetch: its result is discarded.
func UseFetchFunc[T any](fetcher func(context.Context) (T, error), opts ...FetchOption[T]) *Fetch[T] {
	f := &Fetch[T]{
		fetcher: fetcher,
		state:   reactive.NewSignal(Pending),
		data:    reactive.NewSignal(*new(T)),
		err:     reactive.NewSignal[error](nil),
	}
	for _, opt := range opts {
		opt(f)
	}

	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(f.close)
	}

	f.Refetch()
	return f
}

// UseFetch creates a resource that GETs url with client and decodes
// the JSON response body into T. A nil client uses
// http.DefaultClient.
func UseFetch[T any](client *http.Client, url string, opts ...FetchOption[T]) *Fetch[T] {
	if client == nil {
		client = http.DefaultClient
	}
	return UseFetchFunc(func(ctx context.Context) (T, error) {
		var zero T

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return zero, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return zero, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return zero, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
		}

		var out T
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return zero, fmt.Errorf("fetch %s: decode: %w", url, err)
		}
		return out, nil
	}, opts...)
}

// State returns the current state, tracked.
func (f *Fetch[T]) State() FetchState {
	return f.state.Get()
}

// IsLoading reports whether a fetch has not completed yet.
func (f *Fetch[T]) IsLoading() bool {
	s := f.state.Get()
	return s == Loading || s == Pending
}

// IsReady reports whether data is loaded.
func (f *Fetch[T]) IsReady() bool {
	return f.state.Get() == Ready
}

// IsError reports whether the last fetch failed.
func (f *Fetch[T]) IsError() bool {
	return f.state.Get() == Error
}

// Data returns the loaded value, tracked. Zero until the first
// successful fetch.
func (f *Fetch[T]) Data() T {
	return f.data.Get()
}

// DataOr returns the loaded value, or fallback while not ready.
func (f *Fetch[T]) DataOr(fallback T) T {
	if f.IsReady() {
		return f.data.Get()
	}
	return fallback
}

// Err returns the last fetch error, tracked.
func (f *Fetch[T]) Err() error {
	return f.err.Get()
}

// Fetch triggers a load unless fresh data is within its stale time.
func (f *Fetch[T]) Fetch() {
	f.mu.Lock()
	if f.state.Peek() == Ready && time.Since(f.lastFetch) < f.staleTime {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.Refetch()
}

// Refetch forces a load, bypassing the stale-time check.
func (f *Fetch[T]) Refetch() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.fetchID++
	currentID := f.fetchID
	f.mu.Unlock()

	f.state.Set(Loading)
	f.err.Set(nil)

	go func() {
		var result T
		var err error

		maxAttempts := 1 + f.retryCount
		for i := 0; i < maxAttempts; i++ {
			if i > 0 {
				time.Sleep(f.retryDelay)
			}

			if f.cancelled(currentID) {
				return
			}

			result, err = f.fetcher(context.Background())
			if err == nil {
				break
			}
		}

		f.mu.Lock()
		if f.fetchID != currentID || f.closed {
			f.mu.Unlock()
			return
		}
		f.lastFetch = time.Now()
		f.mu.Unlock()

		if err != nil {
			f.err.Set(err)
			f.state.Set(Error)
			if f.onError != nil {
				f.onError(err)
			}
		} else {
			f.data.Set(result)
			f.state.Set(Ready)
			if f.onSuccess != nil {
				f.onSuccess(result)
			}
		}
	}()
}

// Invalidate marks current data stale so the next Fetch hits the
// backend.
func (f *Fetch[T]) Invalidate() {
	f.mu.Lock()
	f.lastFetch = time.Time{}
	f.mu.Unlock()
}

// Mutate optimistically updates the local data without a fetch.
func (f *Fetch[T]) Mutate(fn func(T) T) {
	f.data.Set(fn(f.data.Peek()))
}

func (f *Fetch[T]) cancelled(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchID != id || f.closed
}

func (f *Fetch[T]) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.fetchID++
}
