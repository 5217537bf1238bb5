package services

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var (
	ErrEntryNotFound = errors.New("archive entry not found")
	ErrNotCSV        = errors.New("archive entry is not a CSV file")
)

// MetadataArchive is an in-memory zip of game metadata. Entries can be
// read, replaced and re-serialized; the CSV helpers edit spreadsheet
// entries row by row.
type MetadataArchive struct {
	entries map[string][]byte
	order   []string
}

// OpenMetadataArchive parses a zip from raw bytes.
func OpenMetadataArchive(data []byte) (*MetadataArchive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &MetadataArchive{entries: map[string][]byte{}}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", file.Name, err)
		}
		a.entries[file.Name] = content
		a.order = append(a.order, file.Name)
	}
	return a, nil
}

// NewMetadataArchive creates an empty archive.
func NewMetadataArchive() *MetadataArchive {
	return &MetadataArchive{entries: map[string][]byte{}}
}

// Names lists the entries in archive order.
func (a *MetadataArchive) Names() []string {
	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Entry returns the content of one entry.
func (a *MetadataArchive) Entry(name string) ([]byte, error) {
	content, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return content, nil
}

// SetEntry adds or replaces an entry.
func (a *MetadataArchive) SetEntry(name string, content []byte) {
	if _, exists := a.entries[name]; !exists {
		a.order = append(a.order, name)
	}
	a.entries[name] = content
}

// EditCSV rewrites a CSV entry through edit, which receives all records
// and returns the replacement set.
func (a *MetadataArchive) EditCSV(name string, edit func(records [][]string) ([][]string, error)) error {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrNotCSV, name)
	}
	content, err := a.Entry(name)
	if err != nil {
		return err
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	edited, err := edit(records)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(edited); err != nil {
		return fmt.Errorf("rewrite %s: %w", name, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("rewrite %s: %w", name, err)
	}

	a.entries[name] = buf.Bytes()
	return nil
}

// RewriteArchiveEntry replaces one entry in a zip and returns the
// re-serialized archive.
func RewriteArchiveEntry(archive []byte, entryName string, content []byte) ([]byte, error) {
	a, err := OpenMetadataArchive(archive)
	if err != nil {
		return nil, err
	}
	a.SetEntry(entryName, content)
	return a.Bytes()
}

// Bytes serializes the archive back to zip format with entries in a
// stable order.
func (a *MetadataArchive) Bytes() ([]byte, error) {
	names := a.Names()
	sort.Strings(names)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := writer.Create(name)
		if err != nil {
			writer.Close()
			return nil, fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := w.Write(a.entries[name]); err != nil {
			writer.Close()
			return nil, fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
