package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antopolskiy/taskboard/internal/api"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/server"
	"github.com/antopolskiy/taskboard/internal/task"
)

func newMemoryAPI(t *testing.T, seed ...task.Task) (*api.Client, *server.Memory) {
	t.Helper()
	mem := server.NewMemory(seed...)
	ts := httptest.NewServer(server.New(":0", mem, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return api.New(ts.URL, time.Second), mem
}

func newStubAPI(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return api.New(ts.URL+"/", time.Second)
}

func TestClientRoundTrip(t *testing.T) {
	c, mem := newMemoryAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, task.NewTask{Title: "Buy milk", Description: "2%", Status: task.StatusTodo})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	moved := tasks[0]
	moved.Status = task.StatusDone
	require.NoError(t, c.Update(ctx, moved))
	assert.Equal(t, task.StatusDone, mem.List()[0].Status)

	require.NoError(t, c.Delete(ctx, moved.ID))
	assert.Empty(t, mem.List())

	// Deleting again is still a success.
	require.NoError(t, c.Delete(ctx, moved.ID))
}

func TestClientListEmpty(t *testing.T) {
	c, _ := newMemoryAPI(t)

	tasks, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestClientSendsRequestID(t *testing.T) {
	var got string
	c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(api.RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.List(context.Background())
	require.NoError(t, err)
	_, parseErr := uuid.Parse(got)
	assert.NoError(t, parseErr, "X-Request-ID should be a uuid, got %q", got)
}

func TestClientPaths(t *testing.T) {
	var method, path string
	c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Update(context.Background(), task.Task{ID: 12, Title: "x", Status: task.StatusDone}))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/tasks/12", path)

	require.NoError(t, c.Delete(context.Background(), 3))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/tasks/3", path)
}

func TestClientNon2xxIsNetworkError(t *testing.T) {
	c := newStubAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, clierr.HasCode(err, clierr.NetworkError), "got %v", err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database down")
}

func TestClientMalformedBodyIsDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"object not array", `{"id":1}`},
		{"null", `null`},
		{"wrong field type", `[{"id":"one","title":"x","status":"TODO"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStubAPI(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.List(context.Background())
			require.Error(t, err)
			assert.True(t, clierr.HasCode(err, clierr.DecodeError), "got %v", err)
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := api.New(url, time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, clierr.HasCode(err, clierr.NetworkError), "got %v", err)
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		ts.Close()
	})

	c := api.New(ts.URL, 50*time.Millisecond)
	start := time.Now()
	err := c.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, clierr.HasCode(err, clierr.NetworkError), "got %v", err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClientCreateEmptyResponse(t *testing.T) {
	c := newStubAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	created, err := c.Create(context.Background(), task.NewTask{Title: "x", Status: task.StatusTodo})
	require.NoError(t, err)
	assert.Zero(t, created.ID)
}

func TestClientBaseURLTrimmed(t *testing.T) {
	c := api.New("http://localhost:8085///", time.Second)
	assert.Equal(t, "http://localhost:8085", c.BaseURL())
}
