package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/session"
)

func (h *Handler) register(c echo.Context) error {
	_, err := h.auth.Register(c.Request().Context(),
		c.QueryParam("username"), c.QueryParam("email"), c.QueryParam("password"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) resendVerification(c echo.Context) error {
	if err := h.auth.ResendVerification(c.Request().Context(), c.QueryParam("email")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) verifyAccount(c echo.Context) error {
	if err := h.auth.VerifyAccount(c.Request().Context(), c.QueryParam("verify_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) login(c echo.Context) error {
	token, _, err := h.auth.Login(c.Request().Context(),
		c.QueryParam("email"), c.QueryParam("password"), session.ClientInfoFromContext(c))
	if err != nil {
		return err
	}

	h.sessions.SetCookie(c, token)
	return c.JSON(http.StatusOK, success())
}

// logout succeeds whether or not the cookie names a live session.
func (h *Handler) logout(c echo.Context) error {
	if err := h.sessions.DeleteSession(c.Request().Context(), session.Token(c)); err != nil {
		return err
	}

	h.sessions.ClearCookie(c)
	return c.JSON(http.StatusOK, success())
}

// logoutEverywhere is a no-op without a cookie but rejects a stale one.
func (h *Handler) logoutEverywhere(c echo.Context) error {
	if session.Token(c) == "" {
		return c.JSON(http.StatusOK, success())
	}

	user := session.CurrentUser(c)
	if user == nil {
		return apperror.Auth(session.MsgNotLoggedIn)
	}

	if err := h.sessions.DeleteUserSessions(c.Request().Context(), user.ID); err != nil {
		return err
	}

	h.sessions.ClearCookie(c)
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) requestPasswordReset(c echo.Context) error {
	if err := h.auth.RequestPasswordReset(c.Request().Context(), c.QueryParam("email")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) passwordResetExists(c echo.Context) error {
	exists, err := h.auth.PasswordResetExists(c.Request().Context(), c.QueryParam("reset_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (h *Handler) resetPassword(c echo.Context) error {
	err := h.auth.ResetPassword(c.Request().Context(), c.QueryParam("reset_id"), c.QueryParam("new_password"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) getUserInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, newUserResponse(session.CurrentUser(c)))
}

func (h *Handler) getSpecificUserInfo(c echo.Context) error {
	userID, err := queryID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPublicUserResponse(user))
}

func (h *Handler) setUsername(c echo.Context) error {
	user := session.CurrentUser(c)
	if err := h.auth.SetUsername(c.Request().Context(), user.ID, c.QueryParam("new_username")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) setPassword(c echo.Context) error {
	user := session.CurrentUser(c)
	if err := h.auth.SetPassword(c.Request().Context(), user.ID, c.QueryParam("new_password")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) deleteAccount(c echo.Context) error {
	user := session.CurrentUser(c)
	if err := h.auth.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		return err
	}

	h.sessions.ClearCookie(c)
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) getUserSessions(c echo.Context) error {
	user := session.CurrentUser(c)
	sessions, err := h.sessions.GetUserSessions(c.Request().Context(), user.ID, session.Token(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponses(sessions))
}

func (h *Handler) revokeSession(c echo.Context) error {
	sessionID, err := queryID(c, "session_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.sessions.RevokeSession(c.Request().Context(), user.ID, sessionID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}
