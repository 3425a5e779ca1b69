package casesparser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/medkg/tcmcases-api/casesparser/entities"
)

// CorpusWriter appends processed case records to the output corpus, one
// JSON object per line. Every line is flushed as soon as it is written, so
// records produced before a failing record survive on disk.
type CorpusWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewCorpusWriter creates (or truncates) the output corpus at path,
// creating parent directories as needed.
func NewCorpusWriter(path string) (*CorpusWriter, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output corpus: %w", err)
	}
	return &CorpusWriter{
		file: f,
		buf:  bufio.NewWriter(f),
	}, nil
}

// Append serializes one processed case and writes it as a single line.
func (cw *CorpusWriter) Append(c *entities.ProcessedCase) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal case %s: %w", c.ID.String(), err)
	}
	if _, err := cw.buf.Write(data); err != nil {
		return fmt.Errorf("failed to write case %s: %w", c.ID.String(), err)
	}
	if err := cw.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write case %s: %w", c.ID.String(), err)
	}
	return cw.buf.Flush()
}

// Close flushes pending output and closes the file.
func (cw *CorpusWriter) Close() error {
	if err := cw.buf.Flush(); err != nil {
		cw.file.Close()
		return fmt.Errorf("failed to flush output corpus: %w", err)
	}
	return cw.file.Close()
}
