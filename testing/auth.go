package e2etesting

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestUser struct {
	ID       uint
	Username string
	Email    string
	Password string
}

type AuthHelper struct {
	App *E2EApp
}

func NewAuthHelper(e2eApp *E2EApp) *AuthHelper {
	return &AuthHelper{App: e2eApp}
}

func (h *AuthHelper) Register(t *testing.T, client *HTTPClient, user *TestUser) {
	t.Helper()
	client.MustGet(t, "/register", url.Values{
		"username": {user.Username},
		"email":    {user.Email},
		"password": {user.Password},
	}).AssertSuccess(t)
}

// Verify confirms the account with the id from its latest verification mail.
func (h *AuthHelper) Verify(t *testing.T, client *HTTPClient, email string) {
	t.Helper()
	verifyID := h.App.Mailbox.Param(t, email, "verify_id")
	client.MustGet(t, "/verify_account", url.Values{"verify_id": {verifyID}}).AssertSuccess(t)
}

func (h *AuthHelper) Login(t *testing.T, client *HTTPClient, email, password string) {
	t.Helper()
	client.MustGet(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
	}).AssertSuccess(t)
	require.NotNil(t, client.SessionCookie(h.App.Config.Session.CookieName), "login did not set a session cookie")
}

// SignUp registers, verifies and logs in username on a fresh client.
func (h *AuthHelper) SignUp(t *testing.T, username string) (*HTTPClient, *TestUser) {
	t.Helper()

	user := &TestUser{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse",
	}
	client := h.App.Client()

	h.Register(t, client, user)
	h.Verify(t, client, user.Email)
	h.Login(t, client, user.Email, user.Password)

	var info struct {
		ID uint `json:"id"`
	}
	client.MustGetJSON(t, "/get_user_info", nil, &info)
	require.NotZero(t, info.ID)
	user.ID = info.ID

	return client, user
}
