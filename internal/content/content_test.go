package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	exp := Default()

	assert.Equal(t, "Mark", exp.Recipient)
	assert.Len(t, exp.Matching, MatchingPairs)
	assert.Len(t, exp.Gallery, 2)
	assert.Len(t, exp.Gallery[0].Photos, 9)
	assert.Len(t, exp.Gallery[1].Photos, 16)
	assert.True(t, exp.Gallery[1].ShowNames)
	assert.Equal(t, "Victoria", exp.Gallery[1].Photos[2].Name)
	assert.Contains(t, exp.Riddle.Accept, "deck")
	assert.NotEmpty(t, exp.Letter.Body)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.yaml")
	require.NoError(t, os.WriteFile(path, embeddedDefault, 0o644))

	exp, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Riddle.Question, exp.Riddle.Question)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBrokenDocuments(t *testing.T) {
	t.Run("short catalog", func(t *testing.T) {
		exp := Default()
		exp.Matching = exp.Matching[:7]
		assert.ErrorContains(t, exp.Validate(), "want 8 symbols")
	})

	t.Run("duplicate symbol id", func(t *testing.T) {
		exp := Default()
		exp.Matching[1].ID = exp.Matching[0].ID
		assert.ErrorContains(t, exp.Validate(), "duplicate id")
	})

	t.Run("empty collection", func(t *testing.T) {
		exp := Default()
		exp.Gallery[0].Photos = nil
		assert.ErrorContains(t, exp.Validate(), "has no photos")
	})

	t.Run("no hunt items", func(t *testing.T) {
		exp := Default()
		exp.Hunt.Items = nil
		assert.ErrorContains(t, exp.Validate(), "hunt.items")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("recipient: x\nsurprise: true\n"))
		assert.Error(t, err)
	})
}
