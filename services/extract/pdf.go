package extractsvc

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
)

// PDFExtractor pulls the plain text out of uploaded PDF documents. Other
// content types carry no extractable text and yield an empty string.
type PDFExtractor struct{}

var _ core.TextExtractor = (*PDFExtractor)(nil)

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (x *PDFExtractor) ExtractText(contentType string, data []byte) (string, error) {
	if contentType != "application/pdf" {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "opening pdf")
	}
	text, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "extracting pdf text")
	}

	var sb strings.Builder
	if _, err = io.Copy(&sb, text); err != nil {
		return "", errors.Wrap(err, "reading pdf text")
	}
	return strings.TrimSpace(sb.String()), nil
}
