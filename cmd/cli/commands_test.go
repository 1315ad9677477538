package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mauv0809/crease/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSquad(t *testing.T) {
	squad := parseSquad("Asha:Batter, Bilal:Wicket Keeper,,Chen")
	assert.Equal(t, []ledger.SquadMember{
		{PlayerName: "Asha", Role: "Batter"},
		{PlayerName: "Bilal", Role: "Wicket Keeper"},
		{PlayerName: "Chen", Role: ""},
	}, squad)
	assert.Empty(t, parseSquad(""))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/health", buildURL("http://localhost:8080/", "/health", nil, false))
	assert.Equal(t, "http://h/ratings?dry_run=true&format=csv",
		buildURL("http://h", "/ratings", url.Values{"format": {"csv"}}, true))
}

func TestPerformRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/innings/3/console/ball", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"event_id":1}`))
	}))
	defer srv.Close()

	host = srv.URL
	t.Cleanup(func() { host = "http://localhost:8080" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"ball", "3", "wd2"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, map[string]string{"code": "wd2"}, got)
	assert.Contains(t, out.String(), "Status Code: 201")

	rootCmd.SetArgs([]string{"ball", "3", "nope"})
	assert.Error(t, rootCmd.Execute(), "unknown codes are refused before any request")
}

func TestPerformRequest_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "innings not found", http.StatusNotFound)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := performRequestTo(srv.URL, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "innings not found")
}

func performRequestTo(base string, out *bytes.Buffer) error {
	prev := host
	host = base
	defer func() { host = prev }()
	return performGetRequest(out, "/innings/9", nil)
}

func TestStatsAndConsoleResetCommands(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host = srv.URL
	t.Cleanup(func() { host = "http://localhost:8080" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", "--csv"})
	require.NoError(t, rootCmd.Execute())
	rootCmd.SetArgs([]string{"console", "reset", "4"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, []string{
		"GET /players/stats?format=csv",
		"DELETE /innings/4/console",
	}, calls)
}
