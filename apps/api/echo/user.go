package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core/user"
)

type authApi struct {
	svc      user.ServiceInterface
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, svc user.ServiceInterface, validate *validator.Validate) {
	api := authApi{
		svc:      svc,
		validate: validate,
	}

	g.POST("/auth/session", api.createSession)
}

// createSession exchanges an identity-provider credential for an app JWT.
// The resolved user is returned alongside so clients need no second call.
func (api *authApi) createSession(ctx echo.Context) error {
	var data AuthRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AuthRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Resolve(ctx.Request().Context(), data.Token)
	if err != nil {
		if errors.Cause(err) == user.ErrUnauthenticated {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "resolving credential")
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, AuthResponse{Token: token, User: usr})
}
