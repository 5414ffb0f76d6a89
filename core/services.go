package core

import (
	"context"
	"io"
)

// FileStore is any service that can persist an uploaded file and hand back
// a durable, publicly retrievable URL for it.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (url string, err error)
}

// TextExtractor recovers plain text from an uploaded document so the tutor
// can ground answers in it. A format with no extractable text yields an
// empty string and no error.
type TextExtractor interface {
	ExtractText(contentType string, data []byte) (string, error)
}

// ChatCompleter is any service that can complete a tutoring prompt.
// Implementations must honor the context deadline and surface failure to the
// caller rather than hang.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (answer string, err error)
}
