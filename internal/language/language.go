// Package language maps a language tag to the pair of text-normalisation
// collaborators the tokenizer accepts: a stopword set loaded from embedded
// word lists and a Snowball stemmer.
package language

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

type Language int

const (
	English Language = iota
	French
	Spanish
	German
	Italian
	Dutch
)

var all = []Language{English, French, Spanish, German, Italian, Dutch}

var codes = map[Language]string{
	English: "en",
	French:  "fr",
	Spanish: "es",
	German:  "de",
	Italian: "it",
	Dutch:   "nl",
}

var names = map[Language]string{
	English: "english",
	French:  "french",
	Spanish: "spanish",
	German:  "german",
	Italian: "italian",
	Dutch:   "dutch",
}

// All returns every supported language in declaration order.
func All() []Language {
	out := make([]Language, len(all))
	copy(out, all)
	return out
}

// Code returns the ISO 639-1 code, e.g. "en".
func (l Language) Code() string {
	if c, ok := codes[l]; ok {
		return c
	}
	return ""
}

func (l Language) String() string {
	if n, ok := names[l]; ok {
		return n
	}
	return fmt.Sprintf("language(%d)", int(l))
}

func (l Language) Valid() bool {
	_, ok := codes[l]
	return ok
}

// Parse accepts either the two-letter code or the English name of a
// supported language, case-insensitively.
func Parse(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range all {
		if s == codes[l] || s == names[l] {
			return l, nil
		}
	}
	return 0, apperrors.Validation(apperrors.ErrInvalidInput, "unsupported language %q", s)
}

// MarshalText lets a Language appear as its code in YAML and JSON.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("marshal %s: unsupported language", l)
	}
	return []byte(l.Code()), nil
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
