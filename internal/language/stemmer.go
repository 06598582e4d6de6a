package language

import (
	"log/slog"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/dutch"
	"github.com/blevesearch/snowballstem/german"
	"github.com/blevesearch/snowballstem/italian"
	"github.com/kljensen/snowball"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/tokenizer"
)

// snowballStemmer stems through kljensen/snowball, which covers English,
// French and Spanish.
type snowballStemmer struct {
	lang string
}

func (s snowballStemmer) Stem(term string) (out string) {
	defer recoverStem(term, &out)
	stemmed, err := snowball.Stem(term, s.lang, true)
	if err != nil {
		return term
	}
	return stemmed
}

// envStemmer stems through blevesearch/snowballstem for the languages
// kljensen/snowball does not ship.
type envStemmer struct {
	stem func(*snowballstem.Env) bool
}

func (s envStemmer) Stem(term string) (out string) {
	defer recoverStem(term, &out)
	env := snowballstem.NewEnv(term)
	s.stem(env)
	return env.Current()
}

// recoverStem turns a panic inside a third-party stemmer into the unchanged
// input token.
func recoverStem(term string, out *string) {
	if r := recover(); r != nil {
		slog.Default().With("component", "stemmer").Warn("stemmer panicked, keeping token",
			"term", term,
			"panic", r,
		)
		*out = term
	}
}

// StemmerFor returns the Snowball stemmer for lang, or nil when the language
// is not supported.
func StemmerFor(lang Language) tokenizer.Stemmer {
	switch lang {
	case English, French, Spanish:
		return snowballStemmer{lang: lang.String()}
	case German:
		return envStemmer{stem: german.Stem}
	case Italian:
		return envStemmer{stem: italian.Stem}
	case Dutch:
		return envStemmer{stem: dutch.Stem}
	default:
		return nil
	}
}
