package filterclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "featured", r.PostForm.Get("category"))
		assert.Equal(t, "2", r.PostForm.Get("paged"))
		assert.Equal(t, "3", r.PostForm.Get("columns"))
		assert.Equal(t, "tok", r.PostForm.Get("nonce"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"content":"<div></div>","found_posts":9,"max_pages":1}}`))
	}))
	defer srv.Close()

	tr := &HTTPTransport{Client: srv.Client(), Endpoint: srv.URL}
	resp, err := tr.Filter(context.Background(), Request{Category: "featured", Page: 2, Columns: 3, Nonce: "tok"})
	require.NoError(t, err)
	assert.Equal(t, Response{Content: "<div></div>", FoundPosts: 9, MaxPages: 1}, resp)
}

func TestHTTPTransport_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"data":{"message":"security check failed"}}`))
	}))
	defer srv.Close()

	tr := &HTTPTransport{Client: srv.Client(), Endpoint: srv.URL}
	_, err := tr.Filter(context.Background(), Request{Page: 1})

	var rej *RejectedError
	require.True(t, errors.As(err, &rej), "got %v", err)
	assert.Equal(t, http.StatusForbidden, rej.Status)
	assert.Equal(t, "security check failed", rej.Message)
}

func TestHTTPTransport_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	tr := &HTTPTransport{Client: srv.Client(), Endpoint: srv.URL}
	_, err := tr.Filter(context.Background(), Request{Page: 1})
	require.Error(t, err)
}
