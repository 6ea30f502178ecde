package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ErrEmptyDocument is returned when a recognized document yields no readable text.
var ErrEmptyDocument = errors.New("document contains no text")

// ExtractText turns an uploaded essay into plain text.
// PDF goes through github.com/ledongthuc/pdf, DOCX is read from word/document.xml,
// anything else is treated as UTF-8 text and returned verbatim.
func ExtractText(ctx context.Context, data []byte, fileName string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch kind := detectKind(contentType, fileName, data); kind {
	case mimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf %s: %w", fileName, err)
		}
		return text, nil
	case mimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("extract docx %s: %w", fileName, err)
		}
		return text, nil
	default:
		return string(data), nil
	}
}

func detectKind(contentType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case clean == mimePDF || ext == ".pdf":
		return mimePDF
	case clean == mimeDOCX || ext == ".docx":
		return mimeDOCX
	case clean == "application/zip" && zipHasDocument(data):
		return mimeDOCX
	default:
		return mimeText
	}
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	doc := findDocument(zr)
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	text, err := paragraphs(rc)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func findDocument(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f
		}
	}
	return nil
}

func zipHasDocument(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findDocument(zr) != nil
}

// paragraphs collects character data, breaking lines on </w:p> and <w:br/>.
func paragraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
