package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepository(t *testing.T) {
	var gotAuth string
	var gotName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/repos", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotName, _ = body["name"].(string)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-123")
	err := client.CreateRepository(context.Background(), "alice", "life")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "life", gotName)
}

func TestCreateRepositoryAlreadyExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := NewClient(server.URL, "tok").CreateRepository(context.Background(), "alice", "life")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAlreadyExists))
}

func TestCreateRepositoryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewClient(server.URL, "tok").CreateRepository(context.Background(), "alice", "life")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRemoteAPI))
}

func TestCreateRepositoryNoToken(t *testing.T) {
	err := NewClient("https://api.invalid", "").CreateRepository(context.Background(), "alice", "life")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))
}
