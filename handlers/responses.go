package handlers

import (
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/services/poll"
	"github.com/tech-arch1tect/greenpoll/session"
)

// Timestamps are rendered as unix seconds.

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	JoinTime int64  `json:"join_time" doc:"Unix seconds"`
}

// PublicUserResponse is a user as seen by anyone else.
type PublicUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	JoinTime int64  `json:"join_time" doc:"Unix seconds"`
}

type SessionResponse struct {
	ID         uint   `json:"id"`
	IPAddress  string `json:"ip_address"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	DeviceType string `json:"device_type"`
	Current    bool   `json:"current" doc:"True for the session making the request"`
	CreateTime int64  `json:"create_time"`
	LastUsed   int64  `json:"last_used"`
	ExpiresAt  int64  `json:"expires_at"`
}

type PollResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreateTime  int64  `json:"create_time" doc:"Unix seconds"`
}

type PollOptionResponse struct {
	ID     uint   `json:"id"`
	PollID uint   `json:"poll_id"`
	Value  string `json:"value"`
}

type PollVoteResponse struct {
	ID           uint  `json:"id"`
	UserID       uint  `json:"user_id"`
	PollID       uint  `json:"poll_id"`
	PollOptionID uint  `json:"poll_option_id"`
	VoteTime     int64 `json:"vote_time" doc:"Unix seconds"`
}

func success() SuccessResponse {
	return SuccessResponse{Success: true}
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		JoinTime: u.CreatedAt.Unix(),
	}
}

func newPublicUserResponse(u *models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:       u.ID,
		Username: u.Username,
		JoinTime: u.CreatedAt.Unix(),
	}
}

func newSessionResponses(sessions []session.SessionInfo) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{
			ID:         s.ID,
			IPAddress:  s.IPAddress,
			Browser:    s.Browser,
			OS:         s.Device.OS,
			DeviceType: s.Device.DeviceType,
			Current:    s.Current,
			CreateTime: s.CreatedAt.Unix(),
			LastUsed:   s.LastUsed.Unix(),
			ExpiresAt:  s.ExpiresAt.Unix(),
		})
	}
	return out
}

func newPollResponse(p *models.Poll) PollResponse {
	return PollResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		CreateTime:  p.CreatedAt.Unix(),
	}
}

func newPollResponses(polls []models.Poll) []PollResponse {
	out := make([]PollResponse, 0, len(polls))
	for i := range polls {
		out = append(out, newPollResponse(&polls[i]))
	}
	return out
}

func newPollOptionResponse(o *models.PollOption) PollOptionResponse {
	return PollOptionResponse{
		ID:     o.ID,
		PollID: o.PollID,
		Value:  o.Value,
	}
}

func newPollOptionResponses(options []models.PollOption) []PollOptionResponse {
	out := make([]PollOptionResponse, 0, len(options))
	for i := range options {
		out = append(out, newPollOptionResponse(&options[i]))
	}
	return out
}

func newPollVoteResponse(v *models.PollVote) PollVoteResponse {
	return PollVoteResponse{
		ID:           v.ID,
		UserID:       v.UserID,
		PollID:       v.PollID,
		PollOptionID: v.PollOptionID,
		VoteTime:     v.VoteTime.Unix(),
	}
}

func newPollResults(results []poll.OptionResult) []poll.OptionResult {
	if results == nil {
		return []poll.OptionResult{}
	}
	return results
}
