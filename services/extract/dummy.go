package extractsvc

import "github.com/opennotes/opennotes/core"

// DummyExtractor returns canned text. Tests only.
type DummyExtractor struct {
	Text string
	Err  error

	LastContentType string
}

var _ core.TextExtractor = (*DummyExtractor)(nil)

func (x *DummyExtractor) ExtractText(contentType string, data []byte) (string, error) {
	x.LastContentType = contentType
	if x.Err != nil {
		return "", x.Err
	}
	return x.Text, nil
}
