package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
)

var (
	// errors
	ErrUnauthenticated = errors.New("unauthenticated")
)

type (
	// TokenVerifier checks an external provider credential and returns the
	// profile asserted by the provider. An unverifiable credential yields
	// ErrUnauthenticated.
	TokenVerifier interface {
		Verify(ctx context.Context, credential string) (Profile, error)
	}

	ServiceInterface interface {
		Resolve(ctx context.Context, credential string) (User, error)
		FromProfile(p Profile) User
	}

	Service struct {
		verifier TokenVerifier
		conf     *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(verifier TokenVerifier, conf *core.Config) *Service {
	return &Service{verifier: verifier, conf: conf}
}

// Resolve maps a provider credential to an application User.
// Idempotent: the same underlying credential yields the same User value.
func (svc *Service) Resolve(ctx context.Context, credential string) (User, error) {
	if credential == "" {
		return User{}, ErrUnauthenticated
	}
	profile, err := svc.verifier.Verify(ctx, credential)
	if err != nil {
		if errors.Cause(err) == ErrUnauthenticated {
			return User{}, err
		}
		return User{}, errors.Wrap(err, "verifying credential")
	}
	return svc.FromProfile(profile), nil
}

// FromProfile projects a provider profile onto an application User,
// deriving the role from the configured admin set.
func (svc *Service) FromProfile(p Profile) User {
	return User{
		ID:       p.UID,
		Email:    core.CleanString(p.Email, true /* lower */),
		Name:     core.CleanString(p.Name),
		PhotoURL: p.PhotoURL,
		Role:     RoleOf(p.Email, svc.conf.AdminEmails),
	}
}
