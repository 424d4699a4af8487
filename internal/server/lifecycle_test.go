package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingService runs until Stop is called.
type blockingService struct {
	name    string
	started chan struct{}
	stop    chan struct{}
	once    sync.Once
	order   *[]string
	mu      *sync.Mutex
}

func newBlocking(name string, order *[]string, mu *sync.Mutex) *blockingService {
	return &blockingService{name: name, started: make(chan struct{}), stop: make(chan struct{}), order: order, mu: mu}
}

func (b *blockingService) Start() error {
	close(b.started)
	<-b.stop
	return nil
}

func (b *blockingService) Stop() {
	b.once.Do(func() {
		b.mu.Lock()
		*b.order = append(*b.order, b.name)
		b.mu.Unlock()
		close(b.stop)
	})
}

func TestLifecycle_StopsInReverseOrderAndCloses(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	http := newBlocking("http", &order, &mu)
	telnet := newBlocking("telnet", &order, &mu)
	lc.Add("http", http)
	lc.Add("telnet", telnet)
	lc.OnClose("store", func() error {
		mu.Lock()
		order = append(order, "store")
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	<-http.started
	<-telnet.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.Equal(t, []string{"telnet", "http", "store"}, order)
}

func TestLifecycle_ServiceFailureStopsOthers(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	healthy := newBlocking("http", &order, &mu)
	lc.Add("http", healthy)
	lc.Add("grpc", &FuncService{
		StartFn: func() error { return errors.New("address in use") },
		StopFn:  func() {},
	})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service grpc")
	assert.Contains(t, err.Error(), "address in use")
	assert.Equal(t, []string{"http"}, order)
}

func TestLifecycle_StopTimeout(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), 50*time.Millisecond)
	stuck := make(chan struct{})
	t.Cleanup(func() { close(stuck) })
	lc.Add("stuck", &FuncService{
		StartFn: func() error { <-stuck; return nil },
		StopFn:  func() { <-stuck },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	require.NoError(t, lc.Run(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLifecycle_CloserErrorIsReturned(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), 0)
	lc.OnClose("store", func() error { return errors.New("flush failed") })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lc.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing store")
}

func TestFuncService(t *testing.T) {
	started, stopped := false, false
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}

	assert.NoError(t, svc.Start())
	assert.True(t, started)
	svc.Stop()
	assert.True(t, stopped)
}
