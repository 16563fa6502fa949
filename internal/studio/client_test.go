package studio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGetJSON_SendsTokenAndDecodes(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(TokenHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"members":[{"id":12345678901234567,"email":"a@b.c"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1000)
	data, err := c.GetJSON(context.Background(), NewSession("tok"), "/v1/api/organizations/1/members")
	require.NoError(t, err)
	require.Equal(t, "tok", gotToken)

	body, ok := data.(map[string]any)
	require.True(t, ok)
	members, ok := body["members"].([]any)
	require.True(t, ok)
	require.Len(t, members, 1)

	member := members[0].(map[string]any)
	id, ok := member["id"].(interface{ String() string })
	require.True(t, ok)
	require.Equal(t, "12345678901234567", id.String())
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("x", 500))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 1000).GetJSON(context.Background(), NewSession("tok"), "/boom")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Len(t, statusErr.Snippet, 200)
}

func TestGetJSON_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>login</html>")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 1000).GetJSON(context.Background(), NewSession("tok"), "/html")
	require.ErrorIs(t, err, ErrNonJSON)
}

func TestGetJSON_TrailingDataAfterJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"members":[{"email":"a@b.c"}]}<html>oops</html>`)
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL, 1000).GetJSON(context.Background(), NewSession("tok"), "/mixed")
	require.ErrorIs(t, err, ErrNonJSON)
	require.Nil(t, data)
}

func TestGetJSON_TrailingWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[1, 2]\n\n")
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL, 1000).GetJSON(context.Background(), NewSession("tok"), "/list")
	require.NoError(t, err)
	require.Len(t, data, 2)
}

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", snippetLength-1) + "ü" + "tail"

	s := snippet([]byte(body))
	require.True(t, utf8.ValidString(s))
	require.Equal(t, strings.Repeat("a", snippetLength-1), s)

	require.Equal(t, "short", snippet([]byte("  short  ")))
}

func TestGetJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 1000).GetJSON(context.Background(), NewSession("tok"), "/gone")
	require.Error(t, err)
}

func TestPostJSON_ReturnsNonOKWithoutError(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "tok", r.Header.Get(TokenHeader))
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/", 1000).PostJSON(context.Background(), NewSession("tok"), "/v1/api/1/collaborators/add", map[string]string{"usernameOrEmail": "a@b.c"})
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"usernameOrEmail":"a@b.c"}`, gotBody)
	require.Equal(t, `{"success":false}`, resp.Text())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)
	require.Equal(t, DefaultBaseURL, c.BaseURL())
	require.Equal(t, defaultTimeout, c.timeout)
}
