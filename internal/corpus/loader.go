// Package corpus loads the two labeled article sources into one cleaned table.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/hyperjump/fakenews/internal/cleaner"
	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/models"
)

// Stats counts what happened to the raw rows during Load.
type Stats struct {
	RowsRead       int `json:"rows_read"`
	Duplicates     int `json:"duplicates"`
	MissingDropped int `json:"missing_dropped"`
	EmptyDropped   int `json:"empty_dropped"`
	Malformed      int `json:"malformed"`
	Kept           int `json:"kept"`
}

// Loader reads and cleans the fake and real article sources.
type Loader struct {
	cfg    config.DataConfig
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// NewLoader returns a loader for the file names and encoding in cfg.
func NewLoader(cfg config.DataConfig, opts ...Option) *Loader {
	if cfg.FakeFile == "" {
		cfg.FakeFile = "Fake.csv"
	}
	if cfg.RealFile == "" {
		cfg.RealFile = "True.csv"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "latin1"
	}
	l := &Loader{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// rawRow holds the two columns of interest; a nil pointer is a missing cell.
type rawRow struct {
	title *string
	text  *string
}

// Load reads <dir>/<fake_file> as FAKE and <dir>/<real_file> as REAL.
func (l *Loader) Load(dir string) ([]models.Article, error) {
	articles, _, err := l.LoadWithStats(dir)
	return articles, err
}

// LoadWithStats is Load plus counts of dropped rows.
// Fake rows come before real rows and source order is preserved. Rows are cleaned,
// exact (title, text) duplicates after cleaning are dropped keeping the first, then
// rows with a missing title or text are dropped.
func (l *Loader) LoadWithStats(dir string) ([]models.Article, Stats, error) {
	var stats Stats
	sources := []struct {
		path  string
		label models.Label
	}{
		{filepath.Join(dir, l.cfg.FakeFile), models.LabelFake},
		{filepath.Join(dir, l.cfg.RealFile), models.LabelReal},
	}

	seen := make(map[string]struct{})
	var articles []models.Article
	for _, src := range sources {
		rows, malformed, err := l.readSource(src.path)
		if err != nil {
			return nil, stats, err
		}
		stats.Malformed += malformed
		stats.RowsRead += len(rows)
		l.logger.Debug("read corpus source",
			zap.String("path", src.path),
			zap.String("label", src.label.String()),
			zap.Int("rows", len(rows)),
			zap.Int("malformed", malformed))

		for _, row := range rows {
			title, text := cleanCell(row.title), cleanCell(row.text)
			key := dedupKey(title, text)
			if _, dup := seen[key]; dup {
				stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			if title == nil || text == nil {
				stats.MissingDropped++
				continue
			}
			combined := *title + " " + *text
			if strings.TrimSpace(combined) == "" {
				stats.EmptyDropped++
				continue
			}
			articles = append(articles, models.Article{CombinedText: combined, Label: src.label})
		}
	}
	stats.Kept = len(articles)
	l.logger.Info("corpus loaded",
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("kept", stats.Kept),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("missing", stats.MissingDropped),
		zap.Int("malformed", stats.Malformed))
	return articles, stats, nil
}

func cleanCell(s *string) *string {
	if s == nil {
		return nil
	}
	c := cleaner.Clean(*s)
	return &c
}

func dedupKey(title, text *string) string {
	part := func(s *string) string {
		if s == nil {
			return "\x00"
		}
		return "\x01" + *s
	}
	return part(title) + "\x1f" + part(text)
}

func (l *Loader) readSource(path string) ([]rawRow, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err := readXLSX(path)
		return rows, 0, err
	default:
		return l.readCSV(path)
	}
}

func (l *Loader) readCSV(path string) ([]rawRow, int, error) {
	enc, err := lookupEncoding(l.cfg.Encoding)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", models.ErrDataSource, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, enc.NewDecoder()))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: read header: %w", models.ErrDataSource, path, err)
	}
	titleIdx, textIdx, err := columnIndexes(header)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", models.ErrDataSource, path, err)
	}

	var rows []rawRow
	malformed := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				malformed++
				l.logger.Debug("skipping malformed row", zap.String("path", path), zap.Error(err))
				continue
			}
			return nil, 0, fmt.Errorf("%w: %s: %w", models.ErrDataSource, path, err)
		}
		rows = append(rows, rawRow{title: cell(record, titleIdx), text: cell(record, textIdx)})
	}
	return rows, malformed, nil
}

func readXLSX(path string) ([]rawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDataSource, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", models.ErrDataSource, path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: get rows: %w", models.ErrDataSource, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", models.ErrDataSource, path)
	}
	titleIdx, textIdx, err := columnIndexes(records[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDataSource, path, err)
	}
	rows := make([]rawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rawRow{title: cell(record, titleIdx), text: cell(record, textIdx)})
	}
	return rows, nil
}

// lookupEncoding resolves an IANA codepage name such as latin1 or windows-1252.
func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q: %w", models.ErrDataSource, name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: encoding %q is not supported", models.ErrDataSource, name)
	}
	return enc, nil
}

func columnIndexes(header []string) (title, text int, err error) {
	title, text = -1, -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.TrimPrefix(name, "ï»¿")
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			if title < 0 {
				title = i
			}
		case "text":
			if text < 0 {
				text = i
			}
		}
	}
	if title < 0 || text < 0 {
		return 0, 0, fmt.Errorf("header must contain title and text columns, got %v", header)
	}
	return title, text, nil
}

// cell returns record[i], or nil when the column is absent or the raw value is empty.
func cell(record []string, i int) *string {
	if i >= len(record) || record[i] == "" {
		return nil
	}
	v := record[i]
	return &v
}
