package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todolist/pkg/observability"
)

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd(observability.DiscardLogger())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "todolist dev")
	assert.Contains(t, out.String(), "commit: none")
}

func TestServeCmd_RequiresApp(t *testing.T) {
	root := NewRootCmd(observability.DiscardLogger())
	root.AddCommand(NewServeCmd(nil))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve"})

	assert.ErrorIs(t, root.Execute(), ErrNotInitialized)
}

type fakeServer struct {
	started  chan struct{}
	stop     chan struct{}
	startErr error
	shutdown bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}), stop: make(chan struct{})}
}

func (s *fakeServer) Start() error {
	close(s.started)
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(ctx context.Context) error {
	s.shutdown = true
	close(s.stop)
	return nil
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := newFakeServer()

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv, time.Second) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, srv.shutdown)
	case <-time.After(2 * time.Second):
		t.Fatal("runServer did not return after cancel")
	}
}

func TestRunServer_ReturnsStartError(t *testing.T) {
	srv := newFakeServer()
	srv.startErr = errors.New("address already in use")

	err := runServer(context.Background(), srv, time.Second)
	assert.EqualError(t, err, "address already in use")
	assert.False(t, srv.shutdown)
}
