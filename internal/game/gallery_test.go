package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gicheruj/birthday-present/internal/content"
)

func TestGalleryWrapsAround(t *testing.T) {
	g := NewGallery(content.Default().Gallery)
	require.NoError(t, g.Open("memories"))
	n := len(content.Default().Gallery[0].Photos)

	require.NoError(t, g.Prev())
	assert.Equal(t, n-1, g.Index())
	require.NoError(t, g.Next())
	assert.Equal(t, 0, g.Index())

	for i := 0; i < n; i++ {
		require.NoError(t, g.Next())
	}
	assert.Equal(t, 0, g.Index())
}

func TestGalleryOpenResetsIndex(t *testing.T) {
	g := NewGallery(content.Default().Gallery)
	require.NoError(t, g.Open("memories"))
	require.NoError(t, g.Next())
	require.NoError(t, g.Next())

	require.NoError(t, g.Open("attendance"))
	assert.Equal(t, 0, g.Index())

	g.Close()
	assert.ErrorIs(t, g.Next(), ErrNoCollection)
	assert.ErrorIs(t, g.Prev(), ErrNoCollection)
	assert.ErrorIs(t, g.Open("holidays"), ErrUnknownCollection)
}

func TestGalleryNames(t *testing.T) {
	g := NewGallery(content.Default().Gallery)
	v := g.View().(GalleryView)
	assert.Len(t, v.Collections, 2)
	assert.Nil(t, v.Photo)
	assert.True(t, g.CanContinue())

	require.NoError(t, g.Open("memories"))
	v = g.View().(GalleryView)
	require.NotNil(t, v.Photo)
	assert.Empty(t, v.Photo.Name)

	require.NoError(t, g.Open("attendance"))
	v = g.View().(GalleryView)
	assert.Equal(t, 16, v.Count)
	assert.NotEmpty(t, v.Photo.Name)
}
