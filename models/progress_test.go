package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want Level
	}{
		{0, NumericLevel(1)},
		{4, NumericLevel(1)},
		{5, NumericLevel(2)},
		{9, NumericLevel(2)},
		{10, NumericLevel(3)},
		{299, NumericLevel(9)},
		{300, NumericLevel(10)},
		{499, NumericLevel(10)},
		{500, Master},
		{10000, Master},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestXPToNext(t *testing.T) {
	assert.Equal(t, 5, XPToNext(0))
	assert.Equal(t, 1, XPToNext(4))
	assert.Equal(t, 5, XPToNext(5))
	assert.Equal(t, 200, XPToNext(300))
	assert.Equal(t, 0, XPToNext(500), "no progression past Master")
	assert.Equal(t, 0, XPToNext(9999))
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, NumericLevel(1).Less(NumericLevel(2)))
	assert.False(t, NumericLevel(2).Less(NumericLevel(2)))
	assert.True(t, NumericLevel(10).Less(Master))
	assert.False(t, Master.Less(NumericLevel(10)))
	assert.False(t, Master.Less(Master))
}

func TestLevelJSON(t *testing.T) {
	numeric, err := json.Marshal(NumericLevel(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(numeric))

	master, err := json.Marshal(Master)
	require.NoError(t, err)
	assert.Equal(t, `"Master"`, string(master))

	var l Level
	require.NoError(t, json.Unmarshal([]byte("7"), &l))
	assert.Equal(t, NumericLevel(7), l)

	require.NoError(t, json.Unmarshal([]byte(`"Master"`), &l))
	assert.True(t, l.IsMaster())

	assert.Error(t, json.Unmarshal([]byte(`"Grandmaster"`), &l))
	assert.Error(t, json.Unmarshal([]byte(`true`), &l))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "4", NumericLevel(4).String())
	assert.Equal(t, "Master", Master.String())
}
