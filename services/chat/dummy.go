package chatsvc

import (
	"context"

	"github.com/opennotes/opennotes/core"
)

// DummyCompleter returns a fixed answer (or error); for dev and tests.
type DummyCompleter struct {
	Answer string
	Err    error

	// LastSystem and LastUser record the most recent prompt for assertions.
	LastSystem string
	LastUser   string
}

var _ core.ChatCompleter = (*DummyCompleter)(nil)

func (c *DummyCompleter) Complete(_ context.Context, system, user string) (string, error) {
	c.LastSystem = system
	c.LastUser = user
	if c.Err != nil {
		return "", c.Err
	}
	return c.Answer, nil
}
