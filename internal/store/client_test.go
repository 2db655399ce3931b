package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

// fixture spins up a fake data-API endpoint and returns a client pointed at
// it plus a pointer to the last request the endpoint saw.
func fixture(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *capturedRequest) {
	t.Helper()

	last := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		last.Method = r.Method
		last.Path = r.URL.Path
		last.Query = map[string]string{}
		for key := range r.URL.Query() {
			last.Query[key] = r.URL.Query().Get(key)
		}
		last.Header = r.Header.Clone()
		last.Body = body
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{URL: srv.URL, Key: "publishable-key", Timeout: 2 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	return client, last
}

func TestNew_RequiresURLAndKey(t *testing.T) {
	_, err := New(Config{URL: "", Key: "k"}, nil)
	assert.Error(t, err)

	_, err = New(Config{URL: "https://proj.supabase.co", Key: ""}, nil)
	assert.Error(t, err)
}

func TestSelect_BuildsQueryAndHeaders(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "0-19/42")
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	var rows []map[string]interface{}
	total, err := client.WithToken("user-token").
		From("tasks").
		Eq("owner_id", "u1").
		Eq("completed", false).
		Order("created_at", false).
		Range(0, 19).
		ExactCount().
		Select(context.Background(), &rows)

	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.Len(t, rows, 2)

	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/rest/v1/tasks", last.Path)
	assert.Equal(t, "*", last.Query["select"])
	assert.Equal(t, "eq.u1", last.Query["owner_id"])
	assert.Equal(t, "eq.false", last.Query["completed"])
	assert.Equal(t, "created_at.desc", last.Query["order"])
	assert.Equal(t, "publishable-key", last.Header.Get("apikey"))
	assert.Equal(t, "Bearer user-token", last.Header.Get("Authorization"))
	assert.Equal(t, "items", last.Header.Get("Range-Unit"))
	assert.Equal(t, "0-19", last.Header.Get("Range"))
	assert.Equal(t, "count=exact", last.Header.Get("Prefer"))
}

func TestSelect_SingleSetsAcceptHeader(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7}`))
	})

	var row map[string]interface{}
	_, err := client.WithToken("tok").From("tasks").Eq("id", 7).Single().Select(context.Background(), &row)

	require.NoError(t, err)
	assert.Equal(t, "application/vnd.pgrst.object+json", last.Header.Get("Accept"))
	assert.Equal(t, float64(7), row["id"])
}

func TestSelect_NoRowsCodeBecomesErrNotFound(t *testing.T) {
	client, _ := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	var row map[string]interface{}
	_, err := client.WithToken("tok").From("tasks").Eq("id", 99).Single().Select(context.Background(), &row)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelect_ErrorBodyDecoded(t *testing.T) {
	client, _ := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"42501","message":"permission denied for table tasks"}`))
	})

	var rows []map[string]interface{}
	_, err := client.WithToken("tok").From("tasks").Select(context.Background(), &rows)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "42501", apiErr.Code)
	assert.Contains(t, apiErr.Message, "permission denied")
}

func TestInsert_SendsRepresentationPreference(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":3,"title":"New"}]`))
	})

	var rows []map[string]interface{}
	err := client.WithToken("tok").From("tasks").
		Insert(context.Background(), map[string]interface{}{"title": "New"}, &rows)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "return=representation", last.Header.Get("Prefer"))
	assert.JSONEq(t, `{"title":"New"}`, string(last.Body))
	require.Len(t, rows, 1)
	assert.Equal(t, "New", rows[0]["title"])
}

func TestUpdate_PatchesMatchedRows(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"completed":true}]`))
	})

	var rows []map[string]interface{}
	err := client.WithToken("tok").From("tasks").
		Eq("id", 3).Eq("owner_id", "u1").
		Update(context.Background(), map[string]interface{}{"completed": true}, &rows)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, last.Method)
	assert.Equal(t, "eq.3", last.Query["id"])
	assert.Equal(t, "eq.u1", last.Query["owner_id"])
}

func TestDelete_NoBodyNoPreference(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.WithToken("tok").From("tasks").Eq("id", 5).Delete(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Empty(t, last.Header.Get("Prefer"))
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header string
		want   int
	}{
		{header: "0-19/42", want: 42},
		{header: "*/0", want: 0},
		{header: "0-19/*", want: -1},
		{header: "", want: -1},
		{header: "garbage", want: -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseContentRange(tt.header), "header %q", tt.header)
	}
}

func TestRecoverPassword(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	err := client.RecoverPassword(context.Background(), "user@example.com", "https://app.example.com/reset")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/auth/v1/recover", last.Path)
	assert.Equal(t, "https://app.example.com/reset", last.Query["redirect_to"])
	assert.Equal(t, "publishable-key", last.Header.Get("apikey"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(last.Body, &payload))
	assert.Equal(t, "user@example.com", payload["email"])
}

func TestRecoverPassword_ProviderError(t *testing.T) {
	client, _ := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"msg":"over_email_send_rate_limit"}`))
	})

	err := client.RecoverPassword(context.Background(), "user@example.com", "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "over_email_send_rate_limit", apiErr.Message)
}

func TestUpdatePassword_CarriesDelegatedCredential(t *testing.T) {
	client, last := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	err := client.WithToken("recovery-token").UpdatePassword(context.Background(), "new-secret")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/auth/v1/user", last.Path)
	assert.Equal(t, "Bearer recovery-token", last.Header.Get("Authorization"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(last.Body, &payload))
	assert.Equal(t, "new-secret", payload["password"])
}

func TestUpdatePassword_SessionExpired(t *testing.T) {
	client, _ := fixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	})

	err := client.WithToken("stale").UpdatePassword(context.Background(), "new-secret")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid JWT", apiErr.Message)
}
