package ivrpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParent(t *testing.T) {
	assert.Equal(t, "", Parent(""))
	assert.Equal(t, "", Parent("2"))
	assert.Equal(t, "2", Parent("2/1"))
	assert.Equal(t, "2/1", Parent("2/1/001.wav"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "", Base(""))
	assert.Equal(t, "2", Base("2"))
	assert.Equal(t, "001.wav", Base("2/1/001.wav"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "2", Join("", "2"))
	assert.Equal(t, "2/1", Join("2", "1"))
	assert.Equal(t, "2/1/001.wav", Join("2/1", "001.wav"))
}

func TestIsAncestorOrSelf(t *testing.T) {
	assert.True(t, IsAncestorOrSelf("2", "2"))
	assert.True(t, IsAncestorOrSelf("2", "2/1"))
	assert.True(t, IsAncestorOrSelf("2", "2/1/001.wav"))
	assert.True(t, IsAncestorOrSelf("", "2/1"))
	assert.True(t, IsAncestorOrSelf("", ""))

	// "2" is not an ancestor of its sibling "22" despite the shared prefix
	assert.False(t, IsAncestorOrSelf("2", "22"))
	assert.False(t, IsAncestorOrSelf("2/1", "2"))
	assert.False(t, IsAncestorOrSelf("2", "3/2"))
}

func TestIsDirectChild(t *testing.T) {
	assert.True(t, IsDirectChild("", "2"))
	assert.True(t, IsDirectChild("2", "2/1"))
	assert.True(t, IsDirectChild("2/1", "2/1/001.wav"))

	assert.False(t, IsDirectChild("", ""))
	assert.False(t, IsDirectChild("", "2/1"))
	assert.False(t, IsDirectChild("2", "2"))
	assert.False(t, IsDirectChild("2", "2/1/001.wav"))
	assert.False(t, IsDirectChild("2", "22/1"))
}
