package language

import (
	"bufio"
	"embed"
	"log/slog"
	"strings"
	"sync"
)

//go:embed stopwords/*.txt
var stopwordFS embed.FS

// StopwordSet is an immutable set of lower-case words. A nil set contains
// nothing.
type StopwordSet struct {
	lang  Language
	words map[string]struct{}
}

func (s *StopwordSet) IsStopword(term string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[term]
	return ok
}

func (s *StopwordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

func (s *StopwordSet) Language() Language { return s.lang }

type lazySet struct {
	once sync.Once
	set  *StopwordSet
}

var stopwordSets = func() map[Language]*lazySet {
	m := make(map[Language]*lazySet, len(all))
	for _, l := range all {
		m[l] = &lazySet{}
	}
	return m
}()

// Stopwords returns the shared stopword set for lang, reading the embedded
// list on first use. Unsupported languages yield nil.
func Stopwords(lang Language) *StopwordSet {
	lazy, ok := stopwordSets[lang]
	if !ok {
		return nil
	}
	lazy.once.Do(func() {
		lazy.set = loadStopwords(lang)
	})
	return lazy.set
}

func loadStopwords(lang Language) *StopwordSet {
	logger := slog.Default().With("component", "stopwords")
	name := "stopwords/stopwords-" + lang.Code() + ".txt"
	set := &StopwordSet{lang: lang, words: make(map[string]struct{})}

	f, err := stopwordFS.Open(name)
	if err != nil {
		logger.Error("stopword list missing", "language", lang.Code(), "file", name, "error", err)
		return set
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.words[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading stopword list", "language", lang.Code(), "error", err)
	}
	logger.Debug("stopword list loaded", "language", lang.Code(), "words", len(set.words))
	return set
}
