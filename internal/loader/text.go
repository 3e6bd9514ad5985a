package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// readBlocks splits plain text into record documents separated by blank lines.
func readBlocks(r io.Reader) ([]document, error) {
	var (
		docs  []document
		lines []string
		start int
	)
	flush := func() {
		if len(lines) > 0 {
			docs = append(docs, document{line: start, text: strings.Join(lines, "\n")})
			lines = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if len(lines) == 0 {
			start = n
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "text: scan")
	}
	flush()

	return docs, nil
}
