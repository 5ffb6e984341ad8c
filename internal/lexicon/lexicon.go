// Package lexicon builds the financial sentiment word lists and scores
// raw text against them.
package lexicon

import (
	"embed"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"regexp"
	"strings"
)

//go:embed data
var lexiconData embed.FS

const (
	baseLexiconPath    = "data/loughran_mcdonald.csv"
	customPositivePath = "data/custom/positive.csv"
	customNegativePath = "data/custom/negative.csv"
)

var wordPattern = regexp.MustCompile(`\b\w[\w']*\b`)

// Store holds the merged positive/negative term sets. It is immutable
// after Load and safe to share across goroutines without locking.
type Store struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// New builds a Store from explicit term lists. Terms are lowercased and
// anything present in both lists is dropped from both.
func New(positive, negative []string) *Store {
	pos := make(map[string]struct{}, len(positive))
	neg := make(map[string]struct{}, len(negative))
	for _, t := range positive {
		pos[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	for _, t := range negative {
		neg[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	removeOverlap(pos, neg)
	return &Store{positive: pos, negative: neg}
}

// Load builds the Store from the bundled Loughran-McDonald list plus the
// optional custom overlays. A degraded (possibly empty) lexicon is
// returned rather than an error; every score then comes out neutral.
func Load() *Store {
	pos := loadBaseColumn("Positive")
	neg := loadBaseColumn("Negative")

	for t := range loadCustomCSV(customPositivePath) {
		pos[t] = struct{}{}
	}
	for t := range loadCustomCSV(customNegativePath) {
		neg[t] = struct{}{}
	}

	removeOverlap(pos, neg)

	slog.Info("[Lexicon] Term sets loaded",
		slog.Int("positive", len(pos)),
		slog.Int("negative", len(neg)))

	return &Store{positive: pos, negative: neg}
}

// Score returns (p-n)/(p+n) over word-boundary tokens, in [-1, 1].
// Text with no lexicon hits scores 0.
func (s *Store) Score(text string) float64 {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	var posCount, negCount int
	for _, w := range words {
		if _, ok := s.positive[w]; ok {
			posCount++
		}
		if _, ok := s.negative[w]; ok {
			negCount++
		}
	}

	total := posCount + negCount
	if total == 0 {
		return 0.0
	}
	return float64(posCount-negCount) / float64(total)
}

// IsPositive reports whether term is in the positive set.
func (s *Store) IsPositive(term string) bool {
	_, ok := s.positive[strings.ToLower(term)]
	return ok
}

// IsNegative reports whether term is in the negative set.
func (s *Store) IsNegative(term string) bool {
	_, ok := s.negative[strings.ToLower(term)]
	return ok
}

// Counts returns the sizes of the positive and negative sets.
func (s *Store) Counts() (positive, negative int) {
	return len(s.positive), len(s.negative)
}

// loadBaseColumn extracts the words flagged in the given column of the
// Loughran-McDonald CSV. The column carries the inclusion year when the
// word belongs to the category and "0" otherwise.
func loadBaseColumn(column string) map[string]struct{} {
	terms := make(map[string]struct{})

	f, err := lexiconData.Open(baseLexiconPath)
	if err != nil {
		slog.Warn("[Lexicon] Base lexicon missing, using empty sets",
			slog.String("error", err.Error()))
		return terms
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		slog.Warn("[Lexicon] Failed to read base lexicon header",
			slog.String("error", err.Error()))
		return terms
	}

	wordIdx, colIdx := -1, -1
	for i, name := range header {
		switch name {
		case "Word":
			wordIdx = i
		case column:
			colIdx = i
		}
	}
	if wordIdx < 0 || colIdx < 0 {
		slog.Warn("[Lexicon] Base lexicon is missing required columns",
			slog.String("column", column))
		return terms
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("[Lexicon] Skipping malformed lexicon row",
				slog.String("error", err.Error()))
			continue
		}
		value := strings.TrimSpace(row[colIdx])
		if value != "" && value != "0" {
			terms[strings.ToLower(strings.TrimSpace(row[wordIdx]))] = struct{}{}
		}
	}

	slog.Debug("[Lexicon] Base column loaded",
		slog.String("column", column),
		slog.Int("terms", len(terms)))
	return terms
}

// loadCustomCSV reads an overlay list with a single "term" column.
// Comment rows starting with '#' are skipped; a missing file is fine.
func loadCustomCSV(path string) map[string]struct{} {
	terms := make(map[string]struct{})

	data, err := fs.ReadFile(lexiconData, path)
	if err != nil {
		slog.Info("[Lexicon] Custom overlay not found, skipping",
			slog.String("path", path))
		return terms
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	header, err := reader.Read()
	if err != nil || len(header) == 0 || header[0] != "term" {
		slog.Warn("[Lexicon] Custom overlay is missing the term column",
			slog.String("path", path))
		return terms
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		t := strings.TrimSpace(row[0])
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		terms[strings.ToLower(t)] = struct{}{}
	}

	slog.Debug("[Lexicon] Custom overlay loaded",
		slog.String("path", path),
		slog.Int("terms", len(terms)))
	return terms
}

// removeOverlap drops ambiguous terms from both sets so they contribute
// no signal.
func removeOverlap(pos, neg map[string]struct{}) {
	for t := range pos {
		if _, ok := neg[t]; ok {
			delete(pos, t)
			delete(neg, t)
		}
	}
}
