// Package loader reads company lists from CSV, TSV, XLSX and plain-text files.
//
// Every input row is turned into a record document of "<header>: <value>" lines.
// The company name is the value on the first line of that document.
package loader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/linkedin-finder/internal/model"
)

// Options configures Load.
type Options struct {
	// SkipInvalid logs and skips records without a usable name instead of failing.
	SkipInvalid bool
	// Encoding is a charset label such as "windows-1252". Empty means UTF-8.
	Encoding string
}

// document is a rendered record and the source line it starts on.
type document struct {
	line int
	text string
}

// Load reads path and returns the companies in file order.
func Load(ctx context.Context, path string, opts Options) ([]model.Company, error) {
	docs, err := readDocuments(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	companies := make([]model.Company, 0, len(docs))
	for _, doc := range docs {
		name, err := NameFromDocument(doc.text)
		if err != nil {
			if opts.SkipInvalid {
				zap.L().Warn("loader: skipping record",
					zap.String("path", path),
					zap.Int("line", doc.line),
					zap.Error(err),
				)
				continue
			}
			return nil, &LoadError{Path: path, Line: doc.line, Err: err}
		}
		companies = append(companies, model.Company{Name: name})
	}

	if len(companies) == 0 {
		return nil, &LoadError{Path: path, Err: eris.New("no company records")}
	}

	zap.L().Debug("loader: loaded companies",
		zap.String("path", path),
		zap.Int("records", len(docs)),
		zap.Int("companies", len(companies)),
	)
	return companies, nil
}

// NameFromDocument returns the trimmed value of the first "key: value" line.
// Only the first colon separates key from value.
func NameFromDocument(doc string) (string, error) {
	first, _, _ := strings.Cut(doc, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", eris.New("loader: empty record")
	}

	_, value, ok := strings.Cut(first, ":")
	if !ok {
		return "", eris.Errorf("loader: no key/value separator in %q", first)
	}

	name := strings.TrimSpace(value)
	if name == "" {
		return "", eris.Errorf("loader: empty name in %q", first)
	}
	return name, nil
}

func readDocuments(ctx context.Context, path string, opts Options) ([]document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".xlsx" {
		rows, err := readXLSX(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return rowsToDocuments(rows), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: eris.Wrap(err, "loader: open file")}
	}
	defer f.Close() //nolint:errcheck

	r, err := decodeReader(f, opts.Encoding)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	switch ext {
	case ".txt":
		docs, err := readBlocks(r)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		return docs, nil
	case ".tsv":
		return readDelimitedDocuments(ctx, path, r, '\t')
	default:
		return readDelimitedDocuments(ctx, path, r, ',')
	}
}

func readDelimitedDocuments(ctx context.Context, path string, r io.Reader, delim rune) ([]document, error) {
	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{Delimiter: delim, TrimSpace: true})

	var rows []Row
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rowsToDocuments(rows), nil
}

// decodeReader strips a leading byte-order mark and converts the input to UTF-8.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: unsupported charset %q", charset)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// rowsToDocuments treats rows[0] as the header and renders every following
// non-empty row as "<header>: <value>" lines in column order.
func rowsToDocuments(rows []Row) []document {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0].Fields
	docs := make([]document, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row.Fields) {
			continue
		}

		var b strings.Builder
		for i, value := range row.Fields {
			key := ""
			if i < len(header) {
				key = strings.TrimSpace(header[i])
			}
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(strings.TrimSpace(value))
		}
		docs = append(docs, document{line: row.Line, text: b.String()})
	}
	return docs
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
