package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/rentbook"
	"github.com/google/uuid"
)

// namespace scopes the document ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/rentbook/document"))

// Document is a file submitted for extraction.
type Document struct {
	Name string
	Data []byte
	// SourceType is the declared type of the document. When empty it is
	// inferred from the content.
	SourceType rentbook.SourceType
	// PropertyID is the property the document was submitted for.
	PropertyID string
}

// ID is derived from the document bytes only: the same file submitted twice,
// under any name, has the same id.
func (d Document) ID() string { return uuid.NewSHA1(namespace, d.Data).String() }

// Open reads a document from disk.
func Open(path string, t rentbook.SourceType, property string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("cannot read document: %w", err)
	}
	return Document{Name: filepath.Base(path), Data: data, SourceType: t, PropertyID: property}, nil
}

// Format is the physical format of a document.
type Format string

const (
	PDF   Format = "pdf"
	XLSX  Format = "xlsx"
	JSON  Format = "json"
	CSV   Format = "csv"
	Text  Format = "text"
	Image Format = "image"
)

var (
	pdfMagic  = []byte("%PDF")
	zipMagic  = []byte("PK\x03\x04")
	pngMagic  = []byte("\x89PNG")
	jpegMagic = []byte("\xff\xd8\xff")
)

// Sniff detects the format of a document from its content, then from its
// name.
func Sniff(name string, data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, zipMagic):
		return XLSX
	case bytes.HasPrefix(data, pngMagic), bytes.HasPrefix(data, jpegMagic):
		return Image
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return JSON
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return CSV
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".heic":
		return Image
	}
	return Text
}
