package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core/subscription"
)

type subscriptionApi struct {
	svc      subscription.ServiceInterface
	validate *validator.Validate
}

func registerSubscriptionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc subscription.ServiceInterface, validate *validator.Validate) {
	api := subscriptionApi{
		svc:      svc,
		validate: validate,
	}

	// the caller's id always comes from the token, never the body
	sg := g.Group("/subscriptions", jwt)
	sg.POST("", api.create)
	sg.GET("", api.list)
	sg.DELETE("/:id", api.destroy)
}

func (api *subscriptionApi) create(ctx echo.Context) error {
	var data SubscribeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubscribeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.Subscribe(ctx.Request().Context(), usr.ID, data.SubjectID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *subscriptionApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subs, err := api.svc.List(ctx.Request().Context(), usr.ID)
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing subscriptions"))
		subs = nil
	}
	if subs == nil {
		subs = []subscription.Subscription{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

// destroy unsubscribes the caller from a subject; absent pairs are a no-op.
func (api *subscriptionApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Unsubscribe(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
