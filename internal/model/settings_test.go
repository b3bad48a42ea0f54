package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSettingsView_MasksKey(t *testing.T) {
	key := "sk-abcdef123456"
	s := &UserSettings{UserID: 1, AIAPIKey: &key, AIDepth: DepthDeep}

	v := s.View()
	require.NotNil(t, v.AIAPIKey)
	assert.Equal(t, "sk-...3456", *v.AIAPIKey)
	assert.True(t, v.HasAPIKey)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "abcdef")
	assert.Contains(t, string(data), `"ai_api_key":"sk-...3456"`)
	assert.Contains(t, string(data), `"ai_depth":"deep"`)
}

func TestUserSettingsView_NoKey(t *testing.T) {
	empty := ""
	for _, s := range []*UserSettings{{UserID: 1}, {UserID: 1, AIAPIKey: &empty}} {
		v := s.View()
		assert.Nil(t, v.AIAPIKey)
		assert.False(t, v.HasAPIKey)
	}
}
