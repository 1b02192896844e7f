package session

import (
	"github.com/mileusna/useragent"
)

func GetBrowserInfo(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Browser"
	}

	ua := useragent.Parse(userAgentString)
	if ua.Name == "" {
		return "Unknown Browser"
	}
	if ua.Version != "" {
		return ua.Name + " " + ua.Version
	}
	return ua.Name
}

func GetDeviceInfo(userAgentString string) DeviceInfo {
	if userAgentString == "" {
		return DeviceInfo{
			Browser:    "Unknown Browser",
			OS:         "Unknown OS",
			DeviceType: "Unknown",
			Device:     "Unknown Device",
		}
	}

	ua := useragent.Parse(userAgentString)

	deviceType := "Desktop"
	switch {
	case ua.Mobile:
		deviceType = "Mobile"
	case ua.Tablet:
		deviceType = "Tablet"
	case ua.Bot:
		deviceType = "Bot"
	}

	os := "Unknown OS"
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os += " " + ua.OSVersion
		}
	}

	device := ua.Device
	if device == "" {
		switch {
		case ua.Mobile:
			device = "Mobile Device"
		case ua.Tablet:
			device = "Tablet"
		default:
			device = "Desktop Computer"
		}
	}

	return DeviceInfo{
		Browser:        GetBrowserInfo(userAgentString),
		BrowserVersion: ua.Version,
		OS:             os,
		OSVersion:      ua.OSVersion,
		DeviceType:     deviceType,
		Device:         device,
		Mobile:         ua.Mobile,
		Tablet:         ua.Tablet,
		Desktop:        !ua.Mobile && !ua.Tablet && !ua.Bot,
		Bot:            ua.Bot,
	}
}
