package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/linkedin-finder/internal/loader"
	"github.com/sells-group/linkedin-finder/internal/output"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func acmeGlobexResolver() Resolver {
	return ResolverFunc(func(_ context.Context, name string) (string, error) {
		if name == "Acme Corp" {
			return "https://www.linkedin.com/company/acme/people/", nil
		}
		return "", errors.New("search backend down")
	})
}

const wantAcmeGlobex = "name,linkedin\n" +
	"Acme Corp,https://www.linkedin.com/company/acme/people/\n" +
	"Globex,Error\n"

func TestRun_EndToEndRecordBlocks(t *testing.T) {
	in := writeInput(t, "companies.txt", "name: Acme Corp\n\nname: Globex\n")
	out := filepath.Join(t.TempDir(), "output.csv")

	summary, err := Run(context.Background(), Config{
		InputPath:  in,
		OutputPath: out,
		Resolver:   acmeGlobexResolver(),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wantAcmeGlobex, string(data))

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Tally.Found)
	assert.Equal(t, 1, summary.Tally.Errors)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, out, summary.OutputPath)
}

func TestRun_EndToEndCSV(t *testing.T) {
	in := writeInput(t, "companies.csv", "name\nAcme Corp\nGlobex\n")
	out := filepath.Join(t.TempDir(), "output.csv")

	_, err := Run(context.Background(), Config{InputPath: in, OutputPath: out, Resolver: acmeGlobexResolver()})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wantAcmeGlobex, string(data))
}

func TestRun_Idempotent(t *testing.T) {
	in := writeInput(t, "companies.csv", "name\nAcme Corp\nGlobex\nInitech\n")
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	for _, out := range []string{first, second} {
		_, err := Run(context.Background(), Config{
			InputPath:  in,
			OutputPath: out,
			Resolver:   acmeGlobexResolver(),
			Batch:      Options{Concurrency: 3},
		})
		require.NoError(t, err)
	}

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_Limit(t *testing.T) {
	in := writeInput(t, "companies.csv", "name\nAcme Corp\nGlobex\nInitech\n")
	out := filepath.Join(t.TempDir(), "output.csv")

	summary, err := Run(context.Background(), Config{InputPath: in, OutputPath: out, Limit: 1, Resolver: acmeGlobexResolver()})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "name,linkedin\nAcme Corp,https://www.linkedin.com/company/acme/people/\n", string(data))
}

func TestRun_LoadErrorStopsBeforeWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "output.csv")

	_, err := Run(context.Background(), Config{
		InputPath:  filepath.Join(t.TempDir(), "missing.csv"),
		OutputPath: out,
		Resolver:   acmeGlobexResolver(),
	})
	var le *loader.LoadError
	require.ErrorAs(t, err, &le)
	assert.NoFileExists(t, out)
}

func TestRun_MalformedRecordSkipped(t *testing.T) {
	in := writeInput(t, "companies.txt", "name: Acme Corp\n\nno colon here\n\nname: Globex\n")
	out := filepath.Join(t.TempDir(), "output.csv")

	_, err := Run(context.Background(), Config{
		InputPath:  in,
		OutputPath: out,
		Load:       loader.Options{SkipInvalid: true},
		Resolver:   acmeGlobexResolver(),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wantAcmeGlobex, string(data))
}

func TestRun_WriteError(t *testing.T) {
	in := writeInput(t, "companies.csv", "name\nAcme Corp\n")
	blocker := writeInput(t, "blocker", "x")

	_, err := Run(context.Background(), Config{
		InputPath:  in,
		OutputPath: filepath.Join(blocker, "output.csv"),
		Resolver:   acmeGlobexResolver(),
	})
	var we *output.WriteError
	require.ErrorAs(t, err, &we)
}

func TestRun_RequiresResolver(t *testing.T) {
	_, err := Run(context.Background(), Config{InputPath: "x.csv", OutputPath: "y.csv"})
	assert.ErrorContains(t, err, "resolver is required")
}
