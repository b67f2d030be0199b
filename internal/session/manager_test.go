package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memArtifactStore struct {
	payloads map[string][]byte
}

func newMemArtifactStore() *memArtifactStore {
	return &memArtifactStore{payloads: make(map[string][]byte)}
}

func (s *memArtifactStore) LoadSessionArtifact(_ context.Context, key string) ([]byte, error) {
	return s.payloads[key], nil
}

func (s *memArtifactStore) SaveSessionArtifact(_ context.Context, key string, payload []byte) error {
	s.payloads[key] = payload
	return nil
}

func (s *memArtifactStore) DeleteSessionArtifact(_ context.Context, key string) error {
	delete(s.payloads, key)
	return nil
}

func TestNewAppliesDefaults(t *testing.T) {
	m := New(Config{BaseURL: "https://www.platform.test"}, newMemArtifactStore())
	assert.Equal(t, 90*time.Second, m.cfg.LoginTimeout)
	assert.Equal(t, 5*time.Second, m.cfg.PollInterval)
	assert.Equal(t, "platform-session", m.cfg.ArtifactKey)
}

func TestSavedCookieRoundTrip(t *testing.T) {
	in := []savedCookie{
		{Name: "sessionid", Value: "abc123", Domain: ".platform.test", Path: "/", Expires: 1893456000, HTTPOnly: true, Secure: true},
		{Name: "csrftoken", Value: "tok", Domain: ".platform.test", Path: "/"},
	}
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	var out []savedCookie
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, in, out)
}

func TestInvalidateDeletesArtifact(t *testing.T) {
	store := newMemArtifactStore()
	store.payloads["platform-session"] = []byte(`[]`)

	m := New(Config{BaseURL: "https://www.platform.test"}, store)
	require.NoError(t, m.Invalidate(context.Background()))
	assert.Empty(t, store.payloads)
	assert.False(t, m.authenticated)
}

func TestErrAuthenticationIsMatchable(t *testing.T) {
	err := eris.Wrap(ErrAuthentication, "submit credentials")
	assert.True(t, errors.Is(err, ErrAuthentication))
}
