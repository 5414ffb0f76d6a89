package identitysvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/user"
)

// httpVerifier checks provider credentials against the identity provider's
// verification endpoint. The provider owns the auth protocol; we only ask it
// who a credential belongs to.
type httpVerifier struct {
	verifyURL string
	apiKey    string
	client    *http.Client
}

var _ user.TokenVerifier = (*httpVerifier)(nil)

func NewHTTPVerifier(conf *core.Config) *httpVerifier {
	return &httpVerifier{
		verifyURL: conf.Identity.VerifyURL,
		apiKey:    conf.Identity.APIKey,
		client:    &http.Client{Timeout: conf.Identity.Timeout},
	}
}

func (v *httpVerifier) Verify(ctx context.Context, credential string) (user.Profile, error) {
	data := url.Values{}
	data.Set("key", v.apiKey)
	data.Set("token", credential)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, v.verifyURL, strings.NewReader(data.Encode()),
	)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "building verification request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "calling identity provider")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return user.Profile{}, user.ErrUnauthenticated
	default:
		return user.Profile{}, errors.Errorf("identity provider returned %s", resp.Status)
	}

	var profile user.Profile
	if err = json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return user.Profile{}, errors.Wrap(err, "parsing provider response")
	}
	if profile.UID == "" || profile.Email == "" {
		return user.Profile{}, user.ErrUnauthenticated
	}
	return profile, nil
}
