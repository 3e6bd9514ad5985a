// Package output writes resolution results as CSV or XLSX.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/linkedin-finder/internal/model"
)

// SheetName is the worksheet written for .xlsx output.
const SheetName = "results"

// Header is the first row of every output file.
var Header = []string{"name", "linkedin"}

// WriteError reports a failure to produce the output file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write replaces path with a header row followed by one row per result, in order.
// A .xlsx extension selects a workbook; anything else is CSV.
func Write(path string, results []model.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: eris.Wrap(err, "output: create directory")}
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if err := writeXLSX(path, results); err != nil {
			return &WriteError{Path: path, Err: err}
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: eris.Wrap(err, "output: create file")}
	}
	if err := WriteTo(f, results); err != nil {
		f.Close() //nolint:errcheck
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: eris.Wrap(err, "output: close file")}
	}
	return nil
}

// WriteTo writes results as CSV to w.
func WriteTo(w io.Writer, results []model.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "output: write header")
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Name, r.LinkedIn}); err != nil {
			return eris.Wrap(err, "output: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "output: flush")
	}
	return nil
}

func writeXLSX(path string, results []model.Result) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "output: add sheet")
	}

	addRow(sheet, Header...)
	for _, r := range results {
		addRow(sheet, r.Name, r.LinkedIn)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "output: save workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
