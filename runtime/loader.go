// Package runtime hosts the chat server core: registry, room, sessions,
// acceptor and the supporting loaders.
package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"chat-room/errors"
)

//go:embed censored/*
var censoredFolder embed.FS

// WordList is the outcome of loading the embedded dictionaries, with the
// language names kept for startup logging.
type WordList struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads blacklisted words out of an embedded filesystem,
// one dictionary file per language, one word per line.
type CensoredLoader struct {
	fs embed.FS
}

func NewCensoredLoader(f embed.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// LoadCensoredWords loads the dictionaries shipped with the binary.
func LoadCensoredWords() (*WordList, error) {
	return NewCensoredLoader(censoredFolder).LoadAll("censored")
}

// LoadAll walks the directory, treats every .txt file as a language
// dictionary and merges their lines into a deduplicated word list. An
// empty result is a startup error: running a moderated room with no
// dictionary means the configuration is broken.
func (l *CensoredLoader) LoadAll(path string) (*WordList, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]struct{})
	var languages []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := l.fs.ReadFile(path + "/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner copes with both \n and \r\n endings.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	return &WordList{Words: words, Languages: languages}, nil
}
