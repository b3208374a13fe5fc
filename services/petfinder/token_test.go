package petfinder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"petharvest-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestTokenExchangeAndCache(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/petfinder")
	defer cleanup()

	exchanges := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		err := r.ParseForm()
		require.NoError(t, err)
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "test-key", r.PostForm.Get("client_id"))
		require.Equal(t, "test-secret", r.PostForm.Get("client_secret"))

		exchanges++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type":"Bearer","access_token":"abc","expires_in":3600}`)
	}))
	defer srv.Close()

	store := &MemCredentialStore{}
	client := NewClient(Config{
		BaseUrl:      srv.URL,
		ClientId:     "test-key",
		ClientSecret: "test-secret",
	}, store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	token, err := client.tokens.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", token)
	require.Equal(t, 1, exchanges)

	cred, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, time.Now().Unix()+3590, cred.ExpiresAt, 2)

	// a second call within the expiry window must not hit the network
	token, err = client.tokens.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", token)
	require.Equal(t, 1, exchanges)
}

func TestTokenExchangeExpiredCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type":"Bearer","access_token":"fresh","expires_in":3600}`)
	}))
	defer srv.Close()

	store := &MemCredentialStore{}
	err := store.Save(Credential{
		AccessToken: "stale",
		ExpiresIn:   3600,
		ExpiresAt:   time.Now().Unix() - 1,
	})
	require.NoError(t, err)

	client := NewClient(Config{BaseUrl: srv.URL}, store)

	token, err := client.tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
}

func TestTokenExchangeFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "error status", status: http.StatusUnauthorized, body: `{}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
		{name: "missing fields", status: http.StatusOK, body: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := NewClient(Config{BaseUrl: srv.URL}, &MemCredentialStore{})

			_, err := client.tokens.Token(context.Background())
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
		})
	}
}

func TestFileCredentialStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_cache.json")
	store := FileCredentialStore{Path: path}

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	want := Credential{
		AccessToken: "abc",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		ExpiresAt:   time.Now().Unix() + 3590,
	}
	err = store.Save(want)
	require.NoError(t, err)

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	// a corrupt cache reads as missing so the next exchange replaces it
	err = os.WriteFile(path, []byte("{garbage"), 0600)
	require.NoError(t, err)

	_, ok, err = store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}
