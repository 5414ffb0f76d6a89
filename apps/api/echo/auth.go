package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	claimsIssuer       string
	jwtExpirationDelta time.Duration
	adminEmails        []string

	contextUserKey = "user"
)

// initJWT wires the JWT config to the app config; called once by NewServer.
func initJWT(conf *core.Config) {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	claimsIssuer = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
	adminEmails = conf.AdminEmails
}

// Claims represents the authorization claims transmitted via a JWT.
// The role is deliberately absent: it is re-derived from the admin email
// set on every request, so a config change takes effect on the next call.
type Claims struct {
	jwt.StandardClaims
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    claimsIssuer,
			Subject:   usr.ID,
			Audience:  "OpenNotes",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:    usr.Email,
		Name:     usr.Name,
		PhotoURL: usr.PhotoURL,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}

	usr := user.User{
		ID:       claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		PhotoURL: claims.PhotoURL,
		Role:     user.RoleOf(claims.Email, adminEmails),
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
