package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/language"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/bm25"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "bm25: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bm25", flag.ContinueOnError)
	fs.SetOutput(stderr)
	corpusPath := fs.String("corpus", "", "corpus file, one document per line (required)")
	query := fs.String("q", "", "query text (required)")
	lang := fs.String("lang", "", "language code for stopwords and stemming (en, fr, es, de, it, nl)")
	stopwords := fs.Bool("stopwords", true, "drop the language's stopwords when -lang is set")
	stem := fs.Bool("stem", false, "apply the language's Snowball stemmer when -lang is set")
	k1 := fs.Float64("k1", bm25.DefaultParams().K1, "BM25 term-frequency saturation")
	b := fs.Float64("b", bm25.DefaultParams().B, "BM25 length normalisation")
	limit := fs.Int("limit", 0, "maximum results to print; 0 prints every document")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *corpusPath == "" || *query == "" {
		fs.Usage()
		return fmt.Errorf("-corpus and -q are required")
	}

	slog.SetDefault(logger.New(stderr, *logLevel, "text"))

	docs, err := corpus.Load(*corpusPath)
	if err != nil {
		return err
	}
	opts := []bm25.Option{bm25.WithParameters(*k1, *b)}
	if *lang != "" {
		l, err := language.Parse(*lang)
		if err != nil {
			return err
		}
		opts = append(opts, bm25.LanguageOptions(l, *stopwords, *stem)...)
	}
	engine, err := bm25.New(docs, opts...)
	if err != nil {
		return err
	}
	results, err := engine.Top(*query, *limit)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	for _, r := range results {
		text, _ := engine.Document(r.DocIndex)
		fmt.Fprintf(w, "%d\t%.6f\t%s\n", r.DocIndex, r.Score, text)
	}
	return w.Flush()
}
