package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/session"
)

func (h *Handler) getUserPolls(c echo.Context) error {
	user := session.CurrentUser(c)
	polls, err := h.polls.GetUserPolls(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResponses(polls))
}

func (h *Handler) createPoll(c echo.Context) error {
	user := session.CurrentUser(c)
	poll, err := h.polls.CreatePoll(c.Request().Context(), user.ID, c.QueryParam("title"), c.QueryParam("description"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResponse(poll))
}

func (h *Handler) getPollInfo(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	poll, err := h.polls.GetPoll(c.Request().Context(), pollID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResponse(poll))
}

func (h *Handler) setPollTitle(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.SetTitle(c.Request().Context(), user.ID, pollID, c.QueryParam("title")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) setPollDescription(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.SetDescription(c.Request().Context(), user.ID, pollID, c.QueryParam("description")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) deletePoll(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.DeletePoll(c.Request().Context(), user.ID, pollID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) getPollOptions(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	options, err := h.polls.GetPollOptions(c.Request().Context(), pollID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollOptionResponses(options))
}

func (h *Handler) createPollOption(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	option, err := h.polls.CreateOption(c.Request().Context(), user.ID, pollID, c.QueryParam("value"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollOptionResponse(option))
}

func (h *Handler) getPollOptionInfo(c echo.Context) error {
	optionID, err := queryID(c, "poll_option_id")
	if err != nil {
		return err
	}

	option, err := h.polls.GetOption(c.Request().Context(), optionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollOptionResponse(option))
}

func (h *Handler) setPollOptionValue(c echo.Context) error {
	optionID, err := queryID(c, "poll_option_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.SetOptionValue(c.Request().Context(), user.ID, optionID, c.QueryParam("new_value")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) getPollOptionPoll(c echo.Context) error {
	optionID, err := queryID(c, "poll_option_id")
	if err != nil {
		return err
	}

	poll, err := h.polls.GetOptionPoll(c.Request().Context(), optionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResponse(poll))
}

func (h *Handler) deletePollOption(c echo.Context) error {
	optionID, err := queryID(c, "poll_option_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.DeleteOption(c.Request().Context(), user.ID, optionID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) pollVote(c echo.Context) error {
	optionID, err := queryID(c, "poll_option_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	vote, err := h.polls.Vote(c.Request().Context(), user.ID, optionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollVoteResponse(vote))
}

func (h *Handler) pollUnvote(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	if err := h.polls.Unvote(c.Request().Context(), user.ID, pollID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success())
}

func (h *Handler) getPollVote(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	user := session.CurrentUser(c)
	vote, err := h.polls.GetUserVote(c.Request().Context(), user.ID, pollID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollVoteResponse(vote))
}

func (h *Handler) getPollVotePoll(c echo.Context) error {
	voteID, err := queryID(c, "poll_vote_id")
	if err != nil {
		return err
	}

	poll, err := h.polls.GetVotePoll(c.Request().Context(), voteID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResponse(poll))
}

func (h *Handler) getPollResults(c echo.Context) error {
	pollID, err := queryID(c, "poll_id")
	if err != nil {
		return err
	}

	results, err := h.polls.GetPollResults(c.Request().Context(), pollID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPollResults(results))
}
