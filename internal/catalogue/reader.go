// Package catalogue reads the bulk card data file and loads it into the
// database: a quote-aware CSV reader, the field-list to Card constructor,
// the bulk importer and a file watcher that re-imports on change.
package catalogue

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ReadAll parses catalogue CSV data: a header line (discarded), then one
// card per line. Commas inside double-quoted runs are literal; the quote
// characters themselves toggle an in-quotes state and are never emitted.
// An empty trailing field still produces an empty string, so every line
// yields one field per unquoted comma plus one.
//
// A read failure is returned as an error, never as a silently empty
// result, so callers can tell an empty file from a broken one.
func ReadAll(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// Discard the header line.
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read catalogue header: %w", err)
		}
		return nil, nil
	}

	var rows [][]string
	for scanner.Scan() {
		rows = append(rows, splitLine(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalogue data: %w", err)
	}

	return rows, nil
}

// ReadFile parses the catalogue CSV at the given path.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadAll(f)
}

// splitLine scans one line character by character: a comma outside quotes
// delimits, a comma inside quotes is data, a quote flips the state and is
// consumed. The final field is always emitted, even when empty.
func splitLine(line string) []string {
	var fields []string
	var field []rune
	inQuotes := false

	for _, c := range line {
		switch c {
		case ',':
			if inQuotes {
				field = append(field, c)
			} else {
				fields = append(fields, string(field))
				field = field[:0]
			}
		case '"':
			inQuotes = !inQuotes
		default:
			field = append(field, c)
		}
	}
	fields = append(fields, string(field))

	return fields
}
