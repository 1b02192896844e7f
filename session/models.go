package session

import (
	"time"
)

// ClientInfo describes the client a session was issued to.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// SessionInfo is a session as listed to its owner.
type SessionInfo struct {
	ID        uint       `json:"id"`
	IPAddress string     `json:"ip_address"`
	Browser   string     `json:"browser"`
	Device    DeviceInfo `json:"device"`
	Current   bool       `json:"current"`
	CreatedAt time.Time  `json:"create_time"`
	LastUsed  time.Time  `json:"last_used"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type DeviceInfo struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	OSVersion      string `json:"os_version"`
	DeviceType     string `json:"device_type"`
	Device         string `json:"device"`
	Mobile         bool   `json:"mobile"`
	Tablet         bool   `json:"tablet"`
	Desktop        bool   `json:"desktop"`
	Bot            bool   `json:"bot"`
}
