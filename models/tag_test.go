package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagColor(t *testing.T) {
	c, err := ParseTagColor(" Mint ")
	require.NoError(t, err)
	assert.Equal(t, TagColorMint, c)

	_, err = ParseTagColor("purple")
	assert.Error(t, err)

	_, err = ParseTagColor("")
	assert.Error(t, err)
}

func TestTagColorNextCycles(t *testing.T) {
	assert.Equal(t, TagColorBlue, TagColorRed.Next())
	assert.Equal(t, TagColorMint, TagColorBlue.Next())
	assert.Equal(t, TagColorOrange, TagColorMint.Next())
	assert.Equal(t, TagColorRed, TagColorOrange.Next())
	assert.Equal(t, TagColorRed, TagColor("purple").Next())

	c := TagColorRed
	for range AllTagColors {
		c = c.Next()
	}
	assert.Equal(t, TagColorRed, c)
}

func TestTagColorHex(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllTagColors {
		assert.True(t, c.Valid())
		seen[c.Hex()] = true
	}
	assert.Len(t, seen, len(AllTagColors))
	assert.Equal(t, "#8E8E93", TagColor("").Hex())
}

func TestTagBeforeCreateAssignsID(t *testing.T) {
	tag := &Tag{Name: "Tag 1", Color: TagColorRed}
	require.NoError(t, tag.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, tag.ID)

	fixed := uuid.New()
	tag = &Tag{ID: fixed}
	require.NoError(t, tag.BeforeCreate(nil))
	assert.Equal(t, fixed, tag.ID)
}
