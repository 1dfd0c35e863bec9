package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const separatorLine = "---"

// Load reads one entry per line from r and returns the number of leaves
// added. Blank lines and lines starting with '#' are skipped. A tab splits a
// path from its tooltip. The payload of each leaf is its path as written.
func (b *Builder) Load(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(trimmed, separatorLine); ok {
			if err := b.AddSeparator(rest); err != nil {
				return added, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		path, tooltip, _ := strings.Cut(line, "\t")
		path = strings.TrimSpace(path)
		if _, err := b.AddEntry(Entry{
			Path:    path,
			Tooltip: strings.TrimSpace(tooltip),
			Value:   path,
		}); err != nil {
			return added, fmt.Errorf("line %d: %w", lineNo, err)
		}
		added++
	}

	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("reading catalog: %w", err)
	}
	return added, nil
}
