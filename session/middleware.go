package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
	"go.uber.org/zap"
)

const (
	userContextKey  = "session_user"
	tokenContextKey = "session_token"
)

// LoadUser resolves the session cookie into the request context. Requests
// without a valid session pass through anonymously.
func LoadUser(service *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if service == nil {
				return next(c)
			}

			cookie, err := c.Cookie(service.config.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			c.Set(tokenContextKey, cookie.Value)

			user, err := service.GetUserBySession(c.Request().Context(), cookie.Value)
			if err != nil {
				if !apperror.IsAuth(err) {
					service.logger.Error("failed to resolve session", zap.Error(err))
				}
				return next(c)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects requests that LoadUser did not attach a user to.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return apperror.Auth(MsgNotLoggedIn)
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *models.User {
	if user, ok := c.Get(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func IsAuthenticated(c echo.Context) bool {
	return CurrentUser(c) != nil
}

// Token returns the raw session token presented with the request, if any.
func Token(c echo.Context) string {
	if token, ok := c.Get(tokenContextKey).(string); ok {
		return token
	}
	return ""
}

func ClientInfoFromContext(c echo.Context) ClientInfo {
	return ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

func (s *Service) SetCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.config.MaxAge.Seconds()),
		Secure:   s.config.Secure,
		HttpOnly: s.config.HttpOnly,
		SameSite: parseSameSite(s.config.SameSite),
	})
}

func (s *Service) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.config.Secure,
		HttpOnly: s.config.HttpOnly,
		SameSite: parseSameSite(s.config.SameSite),
	})
}

func parseSameSite(value string) http.SameSite {
	switch value {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
