// internal/api/football_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopularPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/players/popular", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"count":2,"players":[
			{"id":"10","name":"Lamine Yamal","team":"Barcelona","position":"Forward","nationality":"Spain"},
			{"id":"11","name":"Jude Bellingham","team":"Real Madrid","position":"Midfielder","nationality":"England"}]}`))
	}))
	defer srv.Close()

	f := NewFootballClient(srv.URL, quietLogger())
	players := f.PopularPlayers(context.Background())
	require.Len(t, players, 2)
	assert.Equal(t, "Lamine Yamal", players[0].Name)
}

func TestPopularPlayersFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFootballClient(srv.URL, quietLogger())
	players := f.PopularPlayers(context.Background())
	assert.Equal(t, FallbackPlayers(), players)
}

func TestPopularPlayersFallsBackOnEmptyRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"count":0,"players":[]}`))
	}))
	defer srv.Close()

	f := NewFootballClient(srv.URL, quietLogger())
	players := f.PopularPlayers(context.Background())
	assert.NotEmpty(t, players)
	assert.Equal(t, "Lionel Messi", players[0].Name)
}

func TestPopularPlayersFallsBackWhenUnreachable(t *testing.T) {
	f := NewFootballClient("http://127.0.0.1:1", quietLogger())
	players := f.PopularPlayers(context.Background())
	assert.Len(t, players, 8)
}
