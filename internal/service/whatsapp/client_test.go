// internal/service/whatsapp/client_test.go
package whatsapp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendDocument(t *testing.T) {
	var got documentPayload
	var gotAuth string
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "inst-1", "secret-token", 5*time.Second, zap.NewNop())
	err := c.SendDocument(context.Background(), "+254 700-111-222", "report.xlsx", []byte("xlsx-bytes"), "caption text")
	require.NoError(t, err)

	assert.Equal(t, "/messages/document", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "254700111222", got.To)
	assert.Equal(t, "report.xlsx", got.Filename)
	assert.Equal(t, "caption text", got.Caption)
	assert.Equal(t, "inst-1", got.Instance)
	prefix := "data:" + xlsxMime + ";base64,"
	require.True(t, strings.HasPrefix(got.Media, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got.Media, prefix))
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), decoded)
}

func TestSendDocumentProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token", 5*time.Second, zap.NewNop())
	err := c.SendDocument(context.Background(), "111", "f.xlsx", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestSendDocumentProviderReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "instance offline"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token", 5*time.Second, zap.NewNop())
	err := c.SendDocument(context.Background(), "111", "f.xlsx", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance offline")
}

func TestSendDocumentMissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	// No token configured: must not touch the network.
	c := NewClient(srv.URL, "", "", 5*time.Second, zap.NewNop())
	err := c.SendDocument(context.Background(), "111", "f.xlsx", nil, "")
	require.EqualError(t, err, "Credentials missing")
	assert.False(t, called)

	// No URL configured either.
	c = NewClient("", "", "token", 5*time.Second, zap.NewNop())
	err = c.SendDocument(context.Background(), "111", "f.xlsx", nil, "")
	require.EqualError(t, err, "Credentials missing")
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+254 700 111 222", "254700111222"},
		{"(0700) 111-222", "0700111222"},
		{"911234567890", "911234567890"},
		{"", ""},
		{"no digits", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePhone(tt.in))
	}
}
