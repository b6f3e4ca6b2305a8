package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/transport"
)

// TestGet_FollowsRedirectOnce reproduces spec.md §8 scenario 4: a GET that
// receives a 302 to a second URL which returns 200 sees exactly one final
// body and header set, from the second URL.
func TestGet_FollowsRedirectOnce(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Final", "yes")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("das2 stream body"))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/data", http.StatusFound)
	}))
	defer redirecting.Close()

	c, err := transport.NewClient()
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), redirecting.URL+"/start", nil)
	require.NoError(t, err)
	defer resp.Close()

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "yes", resp.Get("X-Final"))

	buf := make([]byte, len("das2 stream body"))
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "das2 stream body", string(buf[:n]))
}

func TestGet_RedirectLoopErrors(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	c, err := transport.NewClient(transport.WithMaxRedirect(2))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL+"/loop", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRedirectLoop))
}

func TestGet_RetriesOnceWithCredentials(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="das2"`)
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := transport.NewClient()
	require.NoError(t, err)

	calls := 0
	auth := func(host, realm string) (string, error) {
		calls++
		assert.Equal(t, `Basic realm="das2"`, realm)

		return transport.BasicAuthHeader("alice", "secret"), nil
	}

	resp, err := c.Get(context.Background(), srv.URL+"/secure", auth)
	require.NoError(t, err)
	defer resp.Close()

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, attempts)
}

func TestGet_NoAuthProviderOn401Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := transport.NewClient()
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL+"/secure", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAuthRequired))
}

func TestGet_404MapsToCatalogNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := transport.NewClient()
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL+"/missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrCatalogNotFound))
}

func TestGet_5xxMapsToHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := transport.NewClient()
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL+"/boom", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrHTTPStatus))
}

func TestBasicAuthHeader_WellKnownValue(t *testing.T) {
	assert.Equal(t, "Basic YWxpY2U6c2VjcmV0", transport.BasicAuthHeader("alice", "secret"))
}
