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

// blockingService blocks in Start until Stop is called and records stop order.
type blockingService struct {
	name    string
	order   *[]string
	orderMu *sync.Mutex
	started chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newBlockingService(name string, order *[]string, mu *sync.Mutex) *blockingService {
	return &blockingService{
		name:    name,
		order:   order,
		orderMu: mu,
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *blockingService) Start() error {
	close(s.started)
	<-s.done
	return nil
}

func (s *blockingService) Stop() {
	s.once.Do(func() {
		s.orderMu.Lock()
		*s.order = append(*s.order, s.name)
		s.orderMu.Unlock()
		close(s.done)
	})
}

func waitStarted(t *testing.T, svcs ...*blockingService) {
	t.Helper()
	for _, s := range svcs {
		select {
		case <-s.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s did not start in time", s.name)
		}
	}
}

func TestLifecycle_StopsInReverseOrderOnCancel(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	var mu sync.Mutex
	var order []string
	acceptor := newBlockingService("acceptor", &order, &mu)
	janitor := newBlockingService("janitor", &order, &mu)
	lc.Add("acceptor", acceptor)
	lc.Add("janitor", janitor)
	assert.Equal(t, []string{"acceptor", "janitor"}, lc.Names())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitStarted(t, acceptor, janitor)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"janitor", "acceptor"}, order)
}

func TestLifecycle_ReturnsFirstServiceError(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	var mu sync.Mutex
	var order []string
	healthy := newBlockingService("healthy", &order, &mu)
	boom := errors.New("address already in use")
	lc.Add("healthy", healthy)
	lc.Add("broken", &FuncService{
		StartFn: func() error { return boom },
		StopFn:  func() {},
	})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service broken")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"healthy"}, order)
}

func TestLifecycle_EarlyCleanExitIsFailure(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("oneshot", &FuncService{
		StartFn: func() error { return nil },
		StopFn:  func() {},
	})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited before shutdown")
}

func TestLifecycle_NoServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, lc.Run(ctx))
}

func TestLifecycle_PreconditionPanics(t *testing.T) {
	assert.Panics(t, func() { NewLifecycle(nil) })
	lc := NewLifecycle(zaptest.NewLogger(t))
	assert.Panics(t, func() { lc.Add("", &FuncService{}) })
	assert.Panics(t, func() { lc.Add("x", nil) })
}

func TestFuncService(t *testing.T) {
	started, stopped := false, false
	svc := &FuncService{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func() { stopped = true },
	}

	assert.NoError(t, svc.Start())
	assert.True(t, started)
	svc.Stop()
	assert.True(t, stopped)
}
