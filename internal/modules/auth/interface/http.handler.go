package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"salleYaFloor/internal/shared/auth"
)

type loginRequest struct {
	Staff    string `json:"staff"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Staff     string    `json:"staff"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewLoginHandler serves POST /api/v1/auth/login. All floor staff share one
// service password; the staff name only personalises the session.
func NewLoginHandler(issuer *auth.TokenIssuer) func(echo.Context) error {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}

		token, claims, err := issuer.Login(req.Staff, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrBadCredentials) {
				slog.Warn("login rejected", slog.String("staff", req.Staff), slog.String("ip", c.RealIP()))
				return echo.NewHTTPError(http.StatusUnauthorized, "bad credentials")
			}
			slog.Error("login failed", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusInternalServerError, "unable to issue token")
		}

		return c.JSON(http.StatusOK, loginResponse{
			Token:     token,
			Staff:     claims.Subject,
			SessionID: claims.SessionID,
			ExpiresAt: claims.ExpiresAt.Time,
		})
	}
}

// RequireStaff is an echo middleware validating the bearer token on the
// staff API routes and exposing the claims to downstream handlers.
func RequireStaff(validator auth.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.ExtractToken(c.Request(), "token")
			claims, err := validator.Validate(token)
			if err != nil {
				status := http.StatusUnauthorized
				message := "invalid token"
				if errors.Is(err, auth.ErrMissingToken) {
					message = "missing token"
				}
				return echo.NewHTTPError(status, message)
			}
			c.Set("staff", claims.Subject)
			c.Set("sessionId", claims.SessionID)
			return next(c)
		}
	}
}
