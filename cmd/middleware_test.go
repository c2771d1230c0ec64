package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdberries/market/internal/auth"
)

// Concurrent requests for the same cached user must each see their own
// token; the shared cache entry is never written after it is stored.
func TestAuthenticate_ConcurrentRequestsKeepOwnToken(t *testing.T) {
	app := &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		auth:   auth.New("test-secret"),
	}

	user := &auth.User{ID: 1, Email: "walter@example.com", Username: "walter"}
	app.auth.CacheAuthenticatedUser(user)

	// Distinct expiries make the two signed tokens distinct strings.
	tokenA, err := app.auth.GenerateToken(user, time.Hour)
	require.NoError(t, err)
	tokenB, err := app.auth.GenerateToken(user, 2*time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, tokenA, tokenB)

	var mu sync.Mutex
	seen := make(map[string]string)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestUser, err := app.auth.GetAuthenticatedUser(r)
		require.NoError(t, err)

		mu.Lock()
		seen[r.Header.Get("Authorization")] = requestUser.Token
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for _, token := range []string{tokenA, tokenB} {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("Authorization", "Token "+token)
				handler.ServeHTTP(httptest.NewRecorder(), req)
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, tokenA, seen["Token "+tokenA])
	assert.Equal(t, tokenB, seen["Token "+tokenB])

	cached, ok := app.auth.GetCachedUser("walter")
	require.True(t, ok)
	assert.Empty(t, cached.Token)
}
