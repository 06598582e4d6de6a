// Package corpus reads line-oriented corpus files: one document per line,
// blank lines ignored.
package corpus

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

// maxLineBytes caps a single document.
const maxLineBytes = 1 << 20

func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()
	docs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	return docs, nil
}

// Read returns the trimmed non-empty lines of r. A reader with no documents
// is an invalid corpus.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var docs []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		docs = append(docs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.Validation(apperrors.ErrInvalidCorpus, "corpus contains no documents")
	}
	return docs, nil
}

// Digest identifies the content of docs. Documents never contain a newline,
// so the newline-joined form is unambiguous.
func Digest(docs []string) string {
	h := sha256.New()
	for _, doc := range docs {
		io.WriteString(h, doc)
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
