package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/linkedin-finder/internal/model"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			cell := row.AddCell()
			cell.SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "companies.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func names(companies []model.Company) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Name
	}
	return out
}

func TestLoad_CSV(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company\nAcme Corp\nGlobex\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Globex"}, names(companies))
}

func TestLoad_CSVUsesFirstColumn(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "name,domain\n  Initech  ,initech.com\n\"Hooli, Inc.\",hooli.xyz\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Initech", "Hooli, Inc."}, names(companies))
}

func TestLoad_ColonInsideValuePreserved(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company\nStudio: North\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Studio: North"}, names(companies))
}

func TestLoad_StripsBOM(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "\ufeffcompany\nAcme\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, names(companies))
}

func TestLoad_Windows1252(t *testing.T) {
	// "Caf\xe9" is "Café" in windows-1252.
	path := writeTestFile(t, "companies.csv", "company\nCaf\xe9 Holdings\n")

	companies, err := Load(context.Background(), path, Options{Encoding: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Café Holdings"}, names(companies))
}

func TestLoad_UnknownEncoding(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company\nAcme\n")

	_, err := Load(context.Background(), path, Options{Encoding: "klingon-8"})
	var le *LoadError
	require.ErrorAs(t, err, &le)
}

func TestLoad_SkipsEmptyRows(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company,city\nAcme,NYC\n,\n\nGlobex,LA\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, names(companies))
}

func TestLoad_TSV(t *testing.T) {
	path := writeTestFile(t, "companies.tsv", "company\tcity\nAcme, Ltd\tNYC\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme, Ltd"}, names(companies))
}

func TestLoad_XLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Company", "Website"},
		{"Acme", "acme.com"},
		{"Globex", "globex.com"},
	})

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, names(companies))
}

func TestLoad_TextBlocks(t *testing.T) {
	path := writeTestFile(t, "companies.txt", "company: Acme\nnote: first\n\n\ncompany: Globex\n")

	companies, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, names(companies))
}

func TestLoad_MalformedFailsByDefault(t *testing.T) {
	path := writeTestFile(t, "companies.txt", "company: Acme\n\njust a name\n")

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Line)
	assert.Equal(t, path, le.Path)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoad_MalformedReportsSourceLineAfterBlankRows(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company,city\nAcme,NYC\n\n,\n,LA\n")

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 5, le.Line)
	assert.Contains(t, err.Error(), "line 5")
}

func TestLoad_MalformedQuotedMultilineRow(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company,note\nAcme,\"two\nlines\"\n,LA\n")

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 4, le.Line)
}

func TestLoad_XLSXMalformedReportsSheetRow(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Company", "Website"},
		{"", ""},
		{"", "globex.com"},
	})

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Line)
}

func TestLoad_MalformedSkipped(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company,city\n,NYC\nGlobex,LA\n")

	companies, err := Load(context.Background(), path, Options{SkipInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, names(companies))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Zero(t, le.Line)
	assert.Contains(t, err.Error(), "open file")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "")

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Zero(t, le.Line)
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company\n")

	_, err := Load(context.Background(), path, Options{})
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoad_CancelledContext(t *testing.T) {
	path := writeTestFile(t, "companies.csv", "company\nAcme\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path, Options{})
	assert.Error(t, err)
}

func TestNameFromDocument(t *testing.T) {
	tests := []struct {
		doc     string
		want    string
		wantErr bool
	}{
		{"company: Acme", "Acme", false},
		{"company:   Acme  \ncity: NYC", "Acme", false},
		{"company: A: B", "A: B", false},
		{"company:", "", true},
		{"no separator", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := NameFromDocument(tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowsToDocuments(t *testing.T) {
	docs := rowsToDocuments([]Row{
		{Line: 1, Fields: []string{"company", "city"}},
		{Line: 2, Fields: []string{"", ""}},
		{Line: 4, Fields: []string{"Acme", "NYC", "extra"}},
	})
	require.Len(t, docs, 1)
	assert.Equal(t, 4, docs[0].line)
	assert.Equal(t, "company: Acme\ncity: NYC\n: extra", docs[0].text)
}

func TestReadBlocks_StartLines(t *testing.T) {
	docs, err := readBlocks(strings.NewReader("\ncompany: Acme\nnote: x\n\n\ncompany: Globex\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, docs[0].line)
	assert.Equal(t, "company: Acme\nnote: x", docs[0].text)
	assert.Equal(t, 6, docs[1].line)
}
