package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/repository/task/inmemory"
	"todoList/internal/service"
)

type taskJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    *string `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
}

type apiClient struct {
	t    *testing.T
	base string
}

func (c apiClient) call(method, path, body string) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c apiClient) list(query string) []taskJSON {
	c.t.Helper()
	status, data := c.call(http.MethodGet, "/tasks"+query, "")
	require.Equal(c.t, http.StatusOK, status)
	var tasks []taskJSON
	require.NoError(c.t, json.Unmarshal(data, &tasks))
	return tasks
}

func containsID(tasks []taskJSON, id int64) bool {
	for _, tk := range tasks {
		if tk.ID == id {
			return true
		}
	}
	return false
}

func newServer(t *testing.T, prefix string) (*httptest.Server, string) {
	t.Helper()
	svc := service.NewTaskService(inmemory.NewTaskStorage(), service.InMemoryType)
	srv := httptest.NewServer(app.NewRouter(config.ServerConfig{RoutePrefix: prefix, CORS: true}, svc))
	t.Cleanup(srv.Close)
	return srv, srv.URL + prefix
}

func TestEndToEnd_TaskLifecycle(t *testing.T) {
	for _, prefix := range []string{"", "/api"} {
		t.Run(fmt.Sprintf("prefix %q", prefix), func(t *testing.T) {
			_, base := newServer(t, prefix)
			c := apiClient{t: t, base: base}

			status, data := c.call(http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
			require.Equal(t, http.StatusCreated, status, string(data))
			var created taskJSON
			require.NoError(t, json.Unmarshal(data, &created))
			assert.False(t, created.Completed)
			assert.NotEmpty(t, created.CreatedAt)
			require.NotNil(t, created.Priority)
			assert.Equal(t, "medium", *created.Priority)

			assert.True(t, containsID(c.list("?completed=false"), created.ID))

			status, data = c.call(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID),
				`{"title":"Buy milk","description":null,"completed":true}`)
			require.Equal(t, http.StatusOK, status, string(data))

			assert.True(t, containsID(c.list("?completed=true"), created.ID))
			assert.False(t, containsID(c.list("?completed=false"), created.ID))

			status, _ = c.call(http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), "")
			require.Equal(t, http.StatusOK, status)

			status, _ = c.call(http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), "")
			assert.Equal(t, http.StatusNotFound, status)

			status, _ = c.call(http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), "")
			assert.Equal(t, http.StatusNotFound, status)
		})
	}
}

func TestEndToEnd_BulkActions(t *testing.T) {
	_, base := newServer(t, "/api")
	c := apiClient{t: t, base: base}

	for _, title := range []string{"a", "b", "c"} {
		status, _ := c.call(http.MethodPost, "/tasks", fmt.Sprintf(`{"title":%q}`, title))
		require.Equal(t, http.StatusCreated, status)
	}
	tasks := c.list("")
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].Title, "newest first")

	status, _ := c.call(http.MethodPut, fmt.Sprintf("/tasks/%d", tasks[1].ID), `{"title":"b","completed":true}`)
	require.Equal(t, http.StatusOK, status)

	status, data := c.call(http.MethodDelete, "/tasks/completed", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"1 completed tasks deleted","count":1}`, string(data))
	assert.Empty(t, c.list("?completed=true"))
	assert.Len(t, c.list("?completed=false"), 2)

	status, data = c.call(http.MethodPatch, "/tasks/mark-all-completed", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"2 tasks marked as completed","count":2}`, string(data))
	assert.Empty(t, c.list("?completed=false"))
}

func TestEndToEnd_UnprefixedRoutesGoneUnderPrefix(t *testing.T) {
	srv, _ := newServer(t, "/api")
	c := apiClient{t: t, base: srv.URL}

	status, _ := c.call(http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.call(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestEndToEnd_ValidationErrors(t *testing.T) {
	_, base := newServer(t, "")
	c := apiClient{t: t, base: base}

	status, _ := c.call(http.MethodPost, "/tasks", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.call(http.MethodPost, "/tasks", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.call(http.MethodPut, "/tasks/12345", `{"title":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, c.list(""))
}

func TestApp_Lifecycle(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			RoutePrefix:     "/api",
			ShutdownTimeout: time.Second,
		},
		Repository: config.RepositoryConfig{Type: "inmemory"},
	}

	a := app.New(cfg)
	require.NoError(t, a.Init(context.Background()))
	require.NoError(t, a.Start())

	resp, err := http.Get("http://" + a.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))

	_, err = http.Get("http://" + a.Addr() + "/health")
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	cfg := &config.Config{Repository: config.RepositoryConfig{
		Type:       "sqlite",
		SQLitePath: t.TempDir() + "/todo.db",
	}}

	store, repoType, err := app.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, service.SQLiteType, repoType)
	assert.NoError(t, store.HealthCheck(context.Background()))

	_, _, err = app.OpenStore(context.Background(), &config.Config{Repository: config.RepositoryConfig{Type: "redis"}})
	assert.Error(t, err)
}
