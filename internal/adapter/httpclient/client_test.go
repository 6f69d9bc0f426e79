package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient()

	body, err := Fetch(context.Background(), client, srv.URL+"/ok", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, string(body))

	body, err = Fetch(context.Background(), client, srv.URL+"/ok", "custom/1.0")
	require.NoError(t, err)
	assert.Equal(t, "custom/1.0", string(body))

	_, err = Fetch(context.Background(), client, srv.URL+"/down", "")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
}
