package runtime

import (
	"embed"
	"testing"

	"chat-room/errors"

	"github.com/stretchr/testify/require"
)

//go:embed testdata
var loaderTestFS embed.FS

func TestCensoredLoader_LoadAll_MergesAndDeduplicates(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader(loaderTestFS)

	// When two dictionaries sharing a word are loaded
	data, err := loader.LoadAll("testdata/words")

	// Then languages are tracked and the shared word appears once
	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.ElementsMatch([]string{"badger", "snake", "blaireau"}, data.Words)
}

func TestCensoredLoader_LoadAll_EmptyDictionaryIsAnError(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader(loaderTestFS)

	// When a dictionary with nothing but blank lines is loaded
	_, err := loader.LoadAll("testdata/empty")

	// Then startup must fail
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestLoadCensoredWords_EmbeddedDictionariesAreUsable(t *testing.T) {
	req := require.New(t)

	data, err := LoadCensoredWords()

	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
