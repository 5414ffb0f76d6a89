package extractsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractor_ExtractText(t *testing.T) {
	x := NewPDFExtractor()

	t.Run("non-pdf content type", func(t *testing.T) {
		txt, err := x.ExtractText("image/png", []byte{0x89, 'P', 'N', 'G'})
		assert.NoError(t, err)
		assert.Empty(t, txt, "only pdf uploads carry extractable text")
	})

	t.Run("malformed pdf", func(t *testing.T) {
		_, err := x.ExtractText("application/pdf", []byte("not a pdf at all"))
		assert.Error(t, err)
	})
}
