package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistry(t *testing.T) {
	raw := `[
		{"account_id": "7", "name": "Wiral Movers", "active": true},
		{"account_id": "9", "name": "Dormant Co", "active": false}
	]`

	r, err := ParseRegistry(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	active, ok := r.Lookup("7")
	require.True(t, ok)
	assert.Equal(t, "Wiral Movers", active.Name)

	_, ok = r.Lookup("9")
	assert.False(t, ok, "inactive tenants must be invisible")

	_, ok = r.Lookup("404")
	assert.False(t, ok)
}

func TestParseRegistryEmpty(t *testing.T) {
	r, err := ParseRegistry("")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestParseRegistryIgnoresUnknownKeys(t *testing.T) {
	raw := `[{"account_id": "7", "name": "Wiral Movers", "timezone": "Asia/Kolkata", "chatwoot_api_token": "tok-7", "active": true}]`
	r, err := ParseRegistry(raw)
	require.NoError(t, err)
	_, ok := r.Lookup("7")
	assert.True(t, ok)
}

func TestParseRegistryErrors(t *testing.T) {
	_, err := ParseRegistry("{not json")
	assert.Error(t, err)

	_, err = ParseRegistry(`[{"name": "no id"}]`)
	assert.Error(t, err)
}
