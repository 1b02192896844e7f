package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/middleware/ratelimit"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/server"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/poll"
	"github.com/tech-arch1tect/greenpoll/session"
	"github.com/tech-arch1tect/greenpoll/testutils"
	"gorm.io/gorm"
)

type testAPI struct {
	srv    *server.Server
	db     *gorm.DB
	mailer *testutils.MockMailService
	cfg    *config.Config
}

func setupAPI(t *testing.T, configure ...func(*config.Config, *Handler)) *testAPI {
	t.Helper()

	db := testutils.SetupTestDB(t)
	cfg := testutils.GetTestConfig()
	logger := logging.NewNop()

	mailer := &testutils.MockMailService{}
	mailer.On("SendTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sessions := session.NewService(&cfg.Session, db, logger)
	authService := auth.NewService(cfg, db, mailer, sessions, logger)
	polls := poll.NewService(db, logger)

	h := New(cfg, authService, polls, sessions, nil, logger)
	for _, fn := range configure {
		fn(cfg, h)
	}

	srv := server.New(cfg, logger)
	h.Register(srv)

	return &testAPI{srv: srv, db: db, mailer: mailer, cfg: cfg}
}

// get performs a GET with params and an optional session cookie.
func (a *testAPI) get(t *testing.T, path string, params url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	target := path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.srv.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[server.ErrorResponse](t, rec).Error
}

func assertSuccess(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

// signup registers, verifies and logs in a user, returning its session cookie.
func (a *testAPI) signup(t *testing.T, username, email string) *http.Cookie {
	t.Helper()

	rec := a.get(t, "/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {testutils.TestPasswords.Valid},
	}, nil)
	assertSuccess(t, rec)

	verifyID, _ := a.mailer.SentData(auth.VerifyTemplate)["verify_id"].(string)
	require.NotEmpty(t, verifyID)
	assertSuccess(t, a.get(t, "/verify_account", url.Values{"verify_id": {verifyID}}, nil))

	rec = a.get(t, "/login", url.Values{
		"email":    {email},
		"password": {testutils.TestPasswords.Valid},
	}, nil)
	assertSuccess(t, rec)
	return sessionCookie(t, rec)
}

func TestAccountFlow(t *testing.T) {
	api := setupAPI(t)
	cookie := api.signup(t, "alice", "alice@x.com")

	t.Run("login cookie", func(t *testing.T) {
		assert.Equal(t, "/", cookie.Path)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Len(t, cookie.Value, 64)
	})

	t.Run("current user", func(t *testing.T) {
		user := decode[UserResponse](t, api.get(t, "/get_user_info", nil, cookie))
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@x.com", user.Email)
		assert.NotZero(t, user.JoinTime)
	})

	t.Run("public profile hides email", func(t *testing.T) {
		user := decode[UserResponse](t, api.get(t, "/get_user_info", nil, cookie))
		rec := api.get(t, "/get_specific_user_info", url.Values{"user_id": {jsonID(user.ID)}}, nil)

		assert.NotContains(t, rec.Body.String(), "email")
		assert.Equal(t, "alice", decode[PublicUserResponse](t, rec).Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := api.get(t, "/get_specific_user_info", url.Values{"user_id": {"999"}}, nil)
		assert.Equal(t, auth.MsgUserNotFound, errorOf(t, rec))
	})

	t.Run("change username", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/set_username", url.Values{"new_username": {"alicia"}}, cookie))
		assert.Equal(t, "alicia", decode[UserResponse](t, api.get(t, "/get_user_info", nil, cookie)).Username)
	})

	t.Run("change password", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/set_password", url.Values{"new_password": {testutils.TestPasswords.Other}}, cookie))

		rec := api.get(t, "/login", url.Values{"email": {"alice@x.com"}, "password": {testutils.TestPasswords.Valid}}, nil)
		assert.Equal(t, auth.MsgInvalidLogin, errorOf(t, rec))
		rec = api.get(t, "/login", url.Values{"email": {"alice@x.com"}, "password": {testutils.TestPasswords.Other}}, nil)
		assertSuccess(t, rec)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		rec := api.get(t, "/logout", nil, cookie)
		assertSuccess(t, rec)

		cleared := sessionCookie(t, rec)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)

		rec = api.get(t, "/get_user_info", nil, cookie)
		assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
	})
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestRegisterErrors(t *testing.T) {
	api := setupAPI(t)
	api.signup(t, "alice", "alice@x.com")

	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{"username taken", url.Values{"username": {"alice"}, "email": {"other@x.com"}, "password": {testutils.TestPasswords.Other}}, auth.MsgUsernameTaken},
		{"email taken", url.Values{"username": {"bob"}, "email": {"alice@x.com"}, "password": {testutils.TestPasswords.Valid}}, auth.MsgEmailTaken},
		{"short password", url.Values{"username": {"bob"}, "email": {"bob@x.com"}, "password": {testutils.TestPasswords.TooShort}}, "Password must be between 8 and 255 characters"},
		{"missing params", nil, "Username must be between 3 and 63 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.get(t, "/register", tt.params, nil)
			assert.Equal(t, tt.want, errorOf(t, rec))
		})
	}
}

func TestVerifyAccount_SingleUse(t *testing.T) {
	api := setupAPI(t)

	assertSuccess(t, api.get(t, "/register", url.Values{
		"username": {"alice"}, "email": {"alice@x.com"}, "password": {testutils.TestPasswords.Valid},
	}, nil))
	verifyID := api.mailer.SentData(auth.VerifyTemplate)["verify_id"].(string)

	assertSuccess(t, api.get(t, "/verify_account", url.Values{"verify_id": {verifyID}}, nil))
	rec := api.get(t, "/verify_account", url.Values{"verify_id": {verifyID}}, nil)
	assert.Equal(t, auth.MsgInvalidVerifyID, errorOf(t, rec))

	var user models.User
	require.NoError(t, api.db.Where("email = ?", "alice@x.com").First(&user).Error)
	assert.True(t, user.Verified)
}

func TestPasswordResetFlow(t *testing.T) {
	api := setupAPI(t)
	cookie := api.signup(t, "alice", "alice@x.com")

	assertSuccess(t, api.get(t, "/request_password_reset", url.Values{"email": {"alice@x.com"}}, nil))
	data := api.mailer.SentData(auth.PasswordResetTemplate)
	require.NotNil(t, data)
	resetID := data["reset_id"].(string)

	assert.True(t, decode[ExistsResponse](t, api.get(t, "/password_reset_exists", url.Values{"reset_id": {resetID}}, nil)).Exists)
	assert.False(t, decode[ExistsResponse](t, api.get(t, "/password_reset_exists", url.Values{"reset_id": {"nope"}}, nil)).Exists)

	assertSuccess(t, api.get(t, "/reset_password", url.Values{
		"reset_id": {resetID}, "new_password": {testutils.TestPasswords.Other},
	}, nil))

	rec := api.get(t, "/reset_password", url.Values{"reset_id": {resetID}, "new_password": {testutils.TestPasswords.Valid}}, nil)
	assert.Equal(t, auth.MsgInvalidResetID, errorOf(t, rec))

	assertSuccess(t, api.get(t, "/login", url.Values{"email": {"alice@x.com"}, "password": {testutils.TestPasswords.Other}}, nil))
	// Existing sessions survive a reset.
	assert.Equal(t, "alice", decode[UserResponse](t, api.get(t, "/get_user_info", nil, cookie)).Username)

	t.Run("unknown email is silent", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/request_password_reset", url.Values{"email": {"ghost@x.com"}}, nil))
	})
}

func TestLogoutSemantics(t *testing.T) {
	api := setupAPI(t)
	stale := &http.Cookie{Name: "session_id", Value: "deadbeef"}

	t.Run("logout without cookie", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/logout", nil, nil))
	})

	t.Run("logout with stale cookie", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/logout", nil, stale))
	})

	t.Run("logout everywhere without cookie", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/logout_everywhere", nil, nil))
	})

	t.Run("logout everywhere with stale cookie", func(t *testing.T) {
		rec := api.get(t, "/logout_everywhere", nil, stale)
		assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
	})

	t.Run("logout everywhere ends every session", func(t *testing.T) {
		first := api.signup(t, "alice", "alice@x.com")
		second := sessionCookie(t, api.get(t, "/login", url.Values{
			"email": {"alice@x.com"}, "password": {testutils.TestPasswords.Valid},
		}, nil))

		assertSuccess(t, api.get(t, "/logout_everywhere", nil, second))

		for _, cookie := range []*http.Cookie{first, second} {
			rec := api.get(t, "/get_user_info", nil, cookie)
			assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
		}
	})
}

func TestSessions(t *testing.T) {
	api := setupAPI(t)
	cookies := []*http.Cookie{api.signup(t, "alice", "alice@x.com")}
	for i := 0; i < 4; i++ {
		rec := api.get(t, "/login", url.Values{"email": {"alice@x.com"}, "password": {testutils.TestPasswords.Valid}}, nil)
		cookies = append(cookies, sessionCookie(t, rec))
	}
	current := cookies[len(cookies)-1]

	t.Run("oldest session was evicted", func(t *testing.T) {
		rec := api.get(t, "/get_user_info", nil, cookies[0])
		assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
	})

	listed := decode[[]SessionResponse](t, api.get(t, "/get_user_sessions", nil, current))
	require.Len(t, listed, 4)
	assert.True(t, listed[0].Current)
	assert.Equal(t, "Chrome 120.0.0.0", listed[0].Browser)
	assert.Equal(t, "Desktop", listed[0].DeviceType)
	for _, s := range listed[1:] {
		assert.False(t, s.Current)
	}

	t.Run("revoke another session", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/revoke_session", url.Values{"session_id": {jsonID(listed[1].ID)}}, current))
		assert.Len(t, decode[[]SessionResponse](t, api.get(t, "/get_user_sessions", nil, current)), 3)

		rec := api.get(t, "/revoke_session", url.Values{"session_id": {jsonID(listed[1].ID)}}, current)
		assert.Equal(t, "Session does not exist", errorOf(t, rec))
	})

	t.Run("cannot revoke another user's session", func(t *testing.T) {
		bob := api.signup(t, "bob", "bob@x.com")
		rec := api.get(t, "/revoke_session", url.Values{"session_id": {jsonID(listed[0].ID)}}, bob)
		assert.Equal(t, "Session does not exist", errorOf(t, rec))
	})
}

func TestAuthenticatedRoutesRequireSession(t *testing.T) {
	api := setupAPI(t)

	for _, r := range (&Handler{}).routes() {
		if r.access != authenticated {
			continue
		}
		t.Run(r.path, func(t *testing.T) {
			rec := api.get(t, r.path, url.Values{"poll_id": {"1"}, "poll_option_id": {"1"}, "session_id": {"1"}}, nil)
			assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
		})
	}
}

func TestInvalidIntegerParams(t *testing.T) {
	api := setupAPI(t)
	cookie := api.signup(t, "alice", "alice@x.com")

	tests := []struct {
		path  string
		param string
	}{
		{"/get_poll_info", "poll_id"},
		{"/get_poll_option_info", "poll_option_id"},
		{"/get_poll_vote_poll", "poll_vote_id"},
		{"/get_specific_user_info", "user_id"},
		{"/poll_vote", "poll_option_id"},
		{"/revoke_session", "session_id"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			for _, value := range []string{"abc", "-1", ""} {
				rec := api.get(t, tt.path, url.Values{tt.param: {value}}, cookie)
				assert.Equal(t, "Invalid "+tt.param, errorOf(t, rec), value)
			}
			rec := api.get(t, tt.path, nil, cookie)
			assert.Equal(t, "Invalid "+tt.param, errorOf(t, rec))
		})
	}
}

func TestPollFlow(t *testing.T) {
	api := setupAPI(t)
	alice := api.signup(t, "alice", "alice@x.com")
	bob := api.signup(t, "bob", "bob@x.com")

	created := decode[PollResponse](t, api.get(t, "/create_poll", url.Values{
		"title": {"Lunch"}, "description": {"Where to?"},
	}, alice))
	require.NotZero(t, created.ID)
	assert.Equal(t, "Lunch", created.Title)
	pollID := url.Values{"poll_id": {jsonID(created.ID)}}

	t.Run("get poll", func(t *testing.T) {
		got := decode[PollResponse](t, api.get(t, "/get_poll_info", pollID, nil))
		assert.Equal(t, created, got)
	})

	t.Run("list own polls", func(t *testing.T) {
		polls := decode[[]PollResponse](t, api.get(t, "/get_user_polls", nil, alice))
		require.Len(t, polls, 1)
		assert.Equal(t, created.ID, polls[0].ID)
		assert.Empty(t, decode[[]PollResponse](t, api.get(t, "/get_user_polls", nil, bob)))
	})

	t.Run("owner edits", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/set_poll_title", url.Values{"poll_id": pollID["poll_id"], "title": {"Dinner"}}, alice))
		assertSuccess(t, api.get(t, "/set_poll_description", url.Values{"poll_id": pollID["poll_id"], "description": {""}}, alice))

		got := decode[PollResponse](t, api.get(t, "/get_poll_info", pollID, nil))
		assert.Equal(t, "Dinner", got.Title)
		assert.Empty(t, got.Description)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		rec := api.get(t, "/set_poll_title", url.Values{"poll_id": pollID["poll_id"], "title": {"Mine"}}, bob)
		assert.Equal(t, poll.MsgNotOwner, errorOf(t, rec))
		rec = api.get(t, "/create_poll_option", url.Values{"poll_id": pollID["poll_id"], "value": {"x"}}, bob)
		assert.Equal(t, poll.MsgNotOwner, errorOf(t, rec))
		rec = api.get(t, "/delete_poll", pollID, bob)
		assert.Equal(t, poll.MsgNotOwner, errorOf(t, rec))
	})

	var options []PollOptionResponse
	for _, value := range []string{"Pizza", "Sushi"} {
		option := decode[PollOptionResponse](t, api.get(t, "/create_poll_option", url.Values{
			"poll_id": pollID["poll_id"], "value": {value},
		}, alice))
		assert.Equal(t, created.ID, option.PollID)
		options = append(options, option)
	}
	optionParam := func(o PollOptionResponse) url.Values {
		return url.Values{"poll_option_id": {jsonID(o.ID)}}
	}

	t.Run("options", func(t *testing.T) {
		assert.Equal(t, options, decode[[]PollOptionResponse](t, api.get(t, "/get_poll_options", pollID, nil)))
		assert.Equal(t, options[0], decode[PollOptionResponse](t, api.get(t, "/get_poll_option_info", optionParam(options[0]), nil)))
		assert.Equal(t, created.ID, decode[PollResponse](t, api.get(t, "/get_poll_option_poll", optionParam(options[1]), nil)).ID)

		assertSuccess(t, api.get(t, "/set_poll_option_value", url.Values{
			"poll_option_id": {jsonID(options[1].ID)}, "new_value": {"Ramen"},
		}, alice))
		assert.Equal(t, "Ramen", decode[PollOptionResponse](t, api.get(t, "/get_poll_option_info", optionParam(options[1]), nil)).Value)
	})

	t.Run("vote and revote", func(t *testing.T) {
		first := decode[PollVoteResponse](t, api.get(t, "/poll_vote", optionParam(options[0]), bob))
		assert.Equal(t, options[0].ID, first.PollOptionID)
		assert.Equal(t, created.ID, first.PollID)

		second := decode[PollVoteResponse](t, api.get(t, "/poll_vote", optionParam(options[1]), bob))
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, options[1].ID, second.PollOptionID)
		assert.Equal(t, int64(1), testutils.CountRows(t, api.db, &models.PollVote{}, "poll_id = ?", created.ID))

		mine := decode[PollVoteResponse](t, api.get(t, "/get_poll_vote", pollID, bob))
		assert.Equal(t, second, mine)

		votePoll := decode[PollResponse](t, api.get(t, "/get_poll_vote_poll", url.Values{"poll_vote_id": {jsonID(second.ID)}}, nil))
		assert.Equal(t, created.ID, votePoll.ID)
	})

	t.Run("results", func(t *testing.T) {
		api.get(t, "/poll_vote", optionParam(options[1]), alice)

		results := decode[[]poll.OptionResult](t, api.get(t, "/get_poll_results", pollID, nil))
		assert.Equal(t, []poll.OptionResult{
			{PollOptionID: options[0].ID, Votes: 0},
			{PollOptionID: options[1].ID, Votes: 2},
		}, results)
	})

	t.Run("unvote", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/poll_unvote", pollID, bob))
		assertSuccess(t, api.get(t, "/poll_unvote", pollID, bob))

		rec := api.get(t, "/get_poll_vote", pollID, bob)
		assert.Equal(t, poll.MsgVoteNotFound, errorOf(t, rec))
	})

	t.Run("delete option then poll", func(t *testing.T) {
		assertSuccess(t, api.get(t, "/delete_poll_option", optionParam(options[0]), alice))
		rec := api.get(t, "/get_poll_option_info", optionParam(options[0]), nil)
		assert.Equal(t, poll.MsgOptionNotFound, errorOf(t, rec))

		assertSuccess(t, api.get(t, "/delete_poll", pollID, alice))
		rec = api.get(t, "/get_poll_info", pollID, nil)
		assert.Equal(t, poll.MsgPollNotFound, errorOf(t, rec))
		assert.Zero(t, testutils.CountRows(t, api.db, &models.PollVote{}, "poll_id = ?", created.ID))
	})
}

func TestPollValidation(t *testing.T) {
	api := setupAPI(t)
	alice := api.signup(t, "alice", "alice@x.com")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	rec := api.get(t, "/create_poll", url.Values{"title": {string(long)}}, alice)
	assert.Equal(t, "Title must be between 1 and 255 characters", errorOf(t, rec))

	created := decode[PollResponse](t, api.get(t, "/create_poll", url.Values{"title": {"Cap"}}, alice))
	for i := 0; i < models.MaxOptionsPerPoll; i++ {
		rec := api.get(t, "/create_poll_option", url.Values{"poll_id": {jsonID(created.ID)}, "value": {"o"}}, alice)
		require.NotContains(t, rec.Body.String(), "error")
	}
	rec = api.get(t, "/create_poll_option", url.Values{"poll_id": {jsonID(created.ID)}, "value": {"one more"}}, alice)
	assert.Equal(t, poll.MsgTooManyOptions, errorOf(t, rec))
}

func TestDeleteAccount(t *testing.T) {
	api := setupAPI(t)
	alice := api.signup(t, "alice", "alice@x.com")
	api.get(t, "/create_poll", url.Values{"title": {"Lunch"}}, alice)

	rec := api.get(t, "/delete_account", nil, alice)
	assertSuccess(t, rec)
	assert.Empty(t, sessionCookie(t, rec).Value)

	rec = api.get(t, "/get_user_info", nil, alice)
	assert.Equal(t, session.MsgNotLoggedIn, errorOf(t, rec))
	assert.Zero(t, testutils.CountRows(t, api.db, &models.Poll{}, "1 = 1"))
	assert.Zero(t, testutils.CountRows(t, api.db, &models.User{}, "1 = 1"))
}

func TestRateLimitedRoutes(t *testing.T) {
	api := setupAPI(t, func(cfg *config.Config, h *Handler) {
		h.limiter = ratelimit.Limiter(ratelimit.Middleware(&ratelimit.Config{Rate: 2}))
	})

	params := url.Values{"email": {"ghost@x.com"}, "password": {testutils.TestPasswords.Valid}}
	for i := 0; i < 2; i++ {
		assert.Equal(t, auth.MsgInvalidLogin, errorOf(t, api.get(t, "/login", params, nil)))
	}
	assert.Equal(t, ratelimit.MsgTooManyRequests, errorOf(t, api.get(t, "/login", params, nil)))

	// The limiter is shared by the credential routes only.
	assert.Equal(t, ratelimit.MsgTooManyRequests, errorOf(t, api.get(t, "/register", nil, nil)))
	assert.Equal(t, poll.MsgPollNotFound, errorOf(t, api.get(t, "/get_poll_info", url.Values{"poll_id": {"1"}}, nil)))
}

func TestDocs(t *testing.T) {
	t.Run("served when enabled", func(t *testing.T) {
		api := setupAPI(t)

		var doc struct {
			Paths map[string]map[string]struct {
				Parameters []struct {
					Name     string `json:"name"`
					Required bool   `json:"required"`
				} `json:"parameters"`
				Security []map[string][]string `json:"security"`
			} `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(api.get(t, "/openapi.json", nil, nil).Body.Bytes(), &doc))

		assert.Len(t, doc.Paths, len((&Handler{}).routes()))
		vote := doc.Paths["/poll_vote"]["get"]
		require.Len(t, vote.Parameters, 1)
		assert.Equal(t, "poll_option_id", vote.Parameters[0].Name)
		assert.True(t, vote.Parameters[0].Required)
		require.Len(t, vote.Security, 1)
		assert.Contains(t, vote.Security[0], sessionSecurity)
		assert.Empty(t, doc.Paths["/get_poll_info"]["get"].Security)

		assert.Contains(t, api.get(t, "/docs", nil, nil).Body.String(), "swagger-ui")
		assert.Contains(t, api.get(t, "/openapi.yaml", nil, nil).Body.String(), "openapi: 3.0.3")
	})

	t.Run("hidden when disabled", func(t *testing.T) {
		api := setupAPI(t, func(cfg *config.Config, _ *Handler) {
			cfg.Docs.Enabled = false
		})
		assert.Equal(t, "Not found", errorOf(t, api.get(t, "/openapi.json", nil, nil)))
	})
}

func TestHealth(t *testing.T) {
	api := setupAPI(t)
	assertSuccess(t, api.get(t, "/health", nil, nil))
}
