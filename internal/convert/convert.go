// ABOUTME: Converts plain-text document formats into pipeline-ready text
// ABOUTME: Handles txt/md passthrough and csv-to-markdown-table rendering
package convert

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnsupportedFormatError reports a file extension the converter cannot
// handle. Binary document formats (PDF, DOCX, PPTX) are extracted upstream
// and arrive here already as text.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %q (expected .txt, .md, or .csv)", e.Ext)
}

// ToText reads the file at path and returns its pipeline-ready text form.
func ToText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return TextFromBytes(filepath.Base(path), data)
}

// TextFromBytes converts raw file content based on the extension of name.
func TextFromBytes(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".markdown":
		return string(data), nil
	case ".csv":
		return csvToMarkdown(data)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// csvToMarkdown renders CSV records as a markdown table so the chunker and
// the model see the column structure rather than raw commas.
func csvToMarkdown(data []byte) (string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1 // ragged rows are common in exported sheets

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	var sb strings.Builder
	writeRow := func(rec []string) {
		sb.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(rec) {
				cell = escapeCell(rec[i])
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(records[0])
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, rec := range records[1:] {
		writeRow(rec)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
