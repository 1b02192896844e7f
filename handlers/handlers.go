// Package handlers maps the GET query API onto the account and poll services.
//
// Every response is HTTP 200. Failures are returned as errors and rendered by
// the server's error handler as {"error": "..."}.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/middleware/ratelimit"
	"github.com/tech-arch1tect/greenpoll/openapi"
	"github.com/tech-arch1tect/greenpoll/server"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/poll"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/zap"
)

const sessionSecurity = "session"

type Handler struct {
	cfg      *config.Config
	auth     *auth.Service
	polls    *poll.Service
	sessions *session.Service
	limiter  ratelimit.Limiter
	docs     *openapi.OpenAPI
	logger   *logging.Service
}

func New(cfg *config.Config, authService *auth.Service, polls *poll.Service, sessions *session.Service, limiter ratelimit.Limiter, logger *logging.Service) *Handler {
	docs := openapi.New(cfg.App.Name, cfg.App.Version).
		Description("Accounts, polls and votes. Every endpoint is a GET with query parameters and answers HTTP 200 " +
			"with either a resource, {\"success\": true} or {\"error\": \"...\"}.").
		Tag("account", "Registration, login and account settings").
		Tag("polls", "Polls and their options").
		Tag("votes", "Voting and results").
		CookieAuth(sessionSecurity, cfg.Session.CookieName, "Session cookie set by /login")

	return &Handler{
		cfg:      cfg,
		auth:     authService,
		polls:    polls,
		sessions: sessions,
		limiter:  limiter,
		docs:     docs,
		logger:   logger,
	}
}

type access int

const (
	public access = iota
	// authenticated routes reject requests without a live session.
	authenticated
	// limited routes accept credentials and share the rate limiter.
	limited
)

type param struct {
	name        string
	description string
	integer     bool
}

func textParam(name, description string) param {
	return param{name: name, description: description}
}

func idParam(name, description string) param {
	return param{name: name, description: description, integer: true}
}

type route struct {
	path     string
	summary  string
	tag      string
	access   access
	params   []param
	response any
	handler  echo.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{"/register", "Create an account and send a verification email", "account", limited,
			[]param{textParam("username", "3 to 63 characters"), textParam("email", "Email address"), textParam("password", "8 to 255 characters")},
			SuccessResponse{}, h.register},
		{"/resend_verification", "Send the verification email again", "account", limited,
			[]param{textParam("email", "Email address of an unverified account")},
			SuccessResponse{}, h.resendVerification},
		{"/verify_account", "Verify an account with the emailed id", "account", public,
			[]param{textParam("verify_id", "Verification id from the email")},
			SuccessResponse{}, h.verifyAccount},
		{"/login", "Log in and receive a session cookie", "account", limited,
			[]param{textParam("email", "Email address"), textParam("password", "Password")},
			SuccessResponse{}, h.login},
		{"/logout", "End the current session", "account", public,
			nil, SuccessResponse{}, h.logout},
		{"/logout_everywhere", "End every session of the current user", "account", public,
			nil, SuccessResponse{}, h.logoutEverywhere},
		{"/request_password_reset", "Email a password reset link", "account", limited,
			[]param{textParam("email", "Email address")},
			SuccessResponse{}, h.requestPasswordReset},
		{"/password_reset_exists", "Check whether a password reset id is still valid", "account", public,
			[]param{textParam("reset_id", "Reset id from the email")},
			ExistsResponse{}, h.passwordResetExists},
		{"/reset_password", "Set a new password with a reset id", "account", limited,
			[]param{textParam("reset_id", "Reset id from the email"), textParam("new_password", "8 to 255 characters")},
			SuccessResponse{}, h.resetPassword},
		{"/get_user_info", "Get the current user", "account", authenticated,
			nil, UserResponse{}, h.getUserInfo},
		{"/get_specific_user_info", "Get another user's public profile", "account", public,
			[]param{idParam("user_id", "User id")},
			PublicUserResponse{}, h.getSpecificUserInfo},
		{"/set_username", "Change the current user's username", "account", authenticated,
			[]param{textParam("new_username", "3 to 63 characters")},
			SuccessResponse{}, h.setUsername},
		{"/set_password", "Change the current user's password", "account", authenticated,
			[]param{textParam("new_password", "8 to 255 characters")},
			SuccessResponse{}, h.setPassword},
		{"/delete_account", "Delete the current user with their polls and votes", "account", authenticated,
			nil, SuccessResponse{}, h.deleteAccount},
		{"/get_user_sessions", "List the current user's sessions", "account", authenticated,
			nil, []SessionResponse{}, h.getUserSessions},
		{"/revoke_session", "End one of the current user's sessions", "account", authenticated,
			[]param{idParam("session_id", "Session id from /get_user_sessions")},
			SuccessResponse{}, h.revokeSession},

		{"/get_user_polls", "List the current user's polls", "polls", authenticated,
			nil, []PollResponse{}, h.getUserPolls},
		{"/create_poll", "Create a poll", "polls", authenticated,
			[]param{textParam("title", "1 to 255 characters"), textParam("description", "Up to 1023 characters")},
			PollResponse{}, h.createPoll},
		{"/get_poll_info", "Get a poll", "polls", public,
			[]param{idParam("poll_id", "Poll id")},
			PollResponse{}, h.getPollInfo},
		{"/set_poll_title", "Rename a poll you own", "polls", authenticated,
			[]param{idParam("poll_id", "Poll id"), textParam("title", "1 to 255 characters")},
			SuccessResponse{}, h.setPollTitle},
		{"/set_poll_description", "Change the description of a poll you own", "polls", authenticated,
			[]param{idParam("poll_id", "Poll id"), textParam("description", "Up to 1023 characters")},
			SuccessResponse{}, h.setPollDescription},
		{"/delete_poll", "Delete a poll you own with its options and votes", "polls", authenticated,
			[]param{idParam("poll_id", "Poll id")},
			SuccessResponse{}, h.deletePoll},
		{"/get_poll_options", "List the options of a poll", "polls", public,
			[]param{idParam("poll_id", "Poll id")},
			[]PollOptionResponse{}, h.getPollOptions},
		{"/create_poll_option", "Add an option to a poll you own", "polls", authenticated,
			[]param{idParam("poll_id", "Poll id"), textParam("value", "1 to 255 characters")},
			PollOptionResponse{}, h.createPollOption},
		{"/get_poll_option_info", "Get a poll option", "polls", public,
			[]param{idParam("poll_option_id", "Poll option id")},
			PollOptionResponse{}, h.getPollOptionInfo},
		{"/set_poll_option_value", "Change an option of a poll you own", "polls", authenticated,
			[]param{idParam("poll_option_id", "Poll option id"), textParam("new_value", "1 to 255 characters")},
			SuccessResponse{}, h.setPollOptionValue},
		{"/get_poll_option_poll", "Get the poll an option belongs to", "polls", public,
			[]param{idParam("poll_option_id", "Poll option id")},
			PollResponse{}, h.getPollOptionPoll},
		{"/delete_poll_option", "Remove an option and its votes from a poll you own", "polls", authenticated,
			[]param{idParam("poll_option_id", "Poll option id")},
			SuccessResponse{}, h.deletePollOption},

		{"/poll_vote", "Vote for an option, replacing any earlier vote on the poll", "votes", authenticated,
			[]param{idParam("poll_option_id", "Poll option id")},
			PollVoteResponse{}, h.pollVote},
		{"/poll_unvote", "Withdraw your vote from a poll", "votes", authenticated,
			[]param{idParam("poll_id", "Poll id")},
			SuccessResponse{}, h.pollUnvote},
		{"/get_poll_vote", "Get your vote on a poll", "votes", authenticated,
			[]param{idParam("poll_id", "Poll id")},
			PollVoteResponse{}, h.getPollVote},
		{"/get_poll_vote_poll", "Get the poll a vote was cast on", "votes", public,
			[]param{idParam("poll_vote_id", "Poll vote id")},
			PollResponse{}, h.getPollVotePoll},
		{"/get_poll_results", "Count the votes for each option of a poll", "votes", public,
			[]param{idParam("poll_id", "Poll id")},
			[]poll.OptionResult{}, h.getPollResults},
	}
}

// Register mounts every route on srv and documents it.
func (h *Handler) Register(srv *server.Server) {
	srv.Use(session.LoadUser(h.sessions))

	srv.Get("/health", h.health)

	routes := h.routes()
	for _, r := range routes {
		var middlewares []echo.MiddlewareFunc
		switch r.access {
		case authenticated:
			middlewares = append(middlewares, session.RequireAuth())
		case limited:
			if h.limiter != nil {
				middlewares = append(middlewares, echo.MiddlewareFunc(h.limiter))
			}
		}
		srv.Get(r.path, r.handler, middlewares...)
		h.document(r)
	}

	if h.cfg.Docs.Enabled {
		srv.Get("/openapi.json", h.docs.JSONHandler())
		srv.Get("/openapi.yaml", h.docs.YAMLHandler())
		srv.Get("/docs", h.docs.SwaggerUIHandler("/openapi.json"))
	}

	h.logger.Debug("routes registered",
		zap.Int("routes", len(routes)),
		zap.Bool("rate_limited", h.limiter != nil),
		zap.Bool("docs", h.cfg.Docs.Enabled))
}

func (h *Handler) document(r route) {
	doc := h.docs.Document(http.MethodGet, r.path).
		Summary(r.summary).
		Tags(r.tag)
	for _, p := range r.params {
		pb := doc.QueryParam(p.name, p.description).Required()
		if p.integer {
			pb.TypeInt()
		}
	}
	if r.access == authenticated {
		doc.Security(sessionSecurity)
	}
	doc.OK(r.response, "The result, or {\"error\": \"...\"} on failure").Build()
}

// Docs exposes the API description built by Register.
func (h *Handler) Docs() *openapi.OpenAPI {
	return h.docs
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, success())
}
