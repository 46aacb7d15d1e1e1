// Package dataio loads sample data files for the fitting pipeline. The
// on-disk format is plain text: one "x y" pair per line, whitespace
// separated, with '#' starting a comment and blank lines ignored.
package dataio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/karsk/splinefit/schema"
)

// LoadFile reads raw samples from the file at path.
func LoadFile(path string) ([]schema.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	samples, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// Load reads raw samples from r. Parsing is strict about structure (two
// numeric columns per data line) but makes no judgement about values;
// NaN and Inf pass through for the sanitizer to drop.
func Load(r io.Reader) ([]schema.Sample, error) {
	var samples []schema.Sample

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", lineNo, len(fields))
		}

		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x value %q", lineNo, fields[0])
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y value %q", lineNo, fields[1])
		}

		samples = append(samples, schema.Sample{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}
