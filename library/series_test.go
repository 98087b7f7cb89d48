package library

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	var ids ExternalIDs
	err := json.Unmarshal([]byte(`{"mu":" 4uqz3ab ","dex":"a1b2","mal":2,"bato":null,"line":"o:95"}`), &ids)
	require.NoError(t, err)

	assert.Equal(t, ID("4uqz3ab"), ids.MU)
	assert.Equal(t, ID("a1b2"), ids.Dex)
	assert.Equal(t, ID("2"), ids.MAL)
	assert.Equal(t, ID(""), ids.Bato)
	assert.Equal(t, ID("o:95"), ids.Line)
	assert.False(t, ids.Empty())
	assert.True(t, ExternalIDs{}.Empty())

	n, ok := ids.MAL.Int()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = ids.Dex.Int()
	assert.False(t, ok)
}

func TestAuthorUnmarshal(t *testing.T) {
	var s Series
	err := json.Unmarshal([]byte(`{"authors":["Oh Seong-dae", {"name":"ONE","type":"Author"}, {"name":"  "}]}`), &s)
	require.NoError(t, err)
	require.Len(t, s.Authors, 3)
	assert.Equal(t, Author{Name: "ONE", Type: "Author"}, s.Authors[1])
	assert.Equal(t, "Oh Seong-dae, ONE", s.AuthorNames())
}

func TestSecretAndFlag(t *testing.T) {
	var st Settings
	err := json.Unmarshal([]byte(`{
		"password": true,
		"mu_password": false,
		"dex_secret": "",
		"mal_client_id": "0123456789abcdef0123456789abcdef",
		"mu_integration": 1,
		"dex_integration": "0",
		"mal_integration": true,
		"dex_integration_forced": "1",
		"mu_lists": {"plan-to": 1, "reading": "0"}
	}`), &st)
	require.NoError(t, err)

	assert.True(t, st.Password.Stored)
	assert.False(t, st.MUPassword.Stored)
	assert.False(t, st.DexSecret.Stored)
	assert.True(t, st.MALClientID.Stored)
	assert.True(t, bool(st.MUIntegration))
	assert.False(t, bool(st.DexIntegration))
	assert.True(t, bool(st.MALIntegration))
	assert.True(t, bool(st.DexIntegrationForced))
	assert.Equal(t, map[string]ID{"plan-to": "1", "reading": "0"}, st.MULists)
}

func TestMessageFromHTML(t *testing.T) {
	assert.Equal(t, "Oops", messageFromHTML([]byte("<html><body><h1> Oops </h1></body></html>")))
	assert.Equal(t, "plain words here", messageFromHTML([]byte("<p>plain\n words   here</p>")))
	assert.True(t, looksLikeHTML("", []byte("  <!doctype html>")))
	assert.False(t, looksLikeHTML("application/json", []byte(`{"a":1}`)))
}
