package identitysvc

import (
	"context"

	"github.com/opennotes/opennotes/core/user"
)

// DummyVerifier resolves credentials from a fixed map; for dev and tests.
type DummyVerifier struct {
	Profiles map[string]user.Profile // credential -> profile
}

var _ user.TokenVerifier = (*DummyVerifier)(nil)

func NewDummyVerifier() *DummyVerifier {
	return &DummyVerifier{Profiles: make(map[string]user.Profile)}
}

func (v *DummyVerifier) Register(credential string, profile user.Profile) {
	v.Profiles[credential] = profile
}

func (v *DummyVerifier) Verify(_ context.Context, credential string) (user.Profile, error) {
	if profile, ok := v.Profiles[credential]; ok {
		return profile, nil
	}
	return user.Profile{}, user.ErrUnauthenticated
}
