package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string, recorded in
// the audit trail for owner actions.
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile or desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	BrowserVer string `json:"browser_ver"`
	IsBot      bool   `json:"is_bot"`
	Platform   string `json:"platform"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Platform:   "unknown",
			Raw:        userAgent,
		}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		Raw:      userAgent,
		IsBot:    parser.Bot(),
		Platform: platformOf(parser),
	}

	if parser.Mobile() {
		info.DeviceType = "mobile"
	} else {
		info.DeviceType = "desktop"
	}

	osInfo := parser.OSInfo()
	info.OS = osInfo.Name
	if info.OS == "" {
		info.OS = "Unknown"
	} else if osInfo.Version != "" {
		info.OS = osInfo.Name + " " + osInfo.Version
	}

	name, version := parser.Browser()
	if name == "" {
		name = "Unknown"
	}
	info.Browser = name
	info.BrowserVer = version

	return info
}

func platformOf(parser *ua.UserAgent) string {
	osName := strings.ToLower(parser.OSInfo().Name)

	switch {
	case strings.Contains(osName, "android"):
		return "android"
	case strings.Contains(osName, "ios"), strings.Contains(osName, "iphone os"):
		return "ios"
	case strings.Contains(osName, "windows"):
		return "windows"
	case strings.Contains(osName, "mac"):
		return "mac"
	case strings.Contains(osName, "linux"), strings.Contains(osName, "ubuntu"):
		return "linux"
	default:
		return "unknown"
	}
}
