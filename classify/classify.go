// Package classify derives device, browser and OS families from the visitor
// user agent. The checks are ordered deliberately: several vendors embed
// other vendors' tokens (Chrome carries "Safari", Edge carries "Chrome"),
// so reordering them changes results.
package classify

import "strings"

// DeviceType classifies the visitor device as Tablet, Mobile or Desktop.
// viewportWidth below 768 forces Mobile; pass 0 when the width is unknown.
func DeviceType(userAgent string, viewportWidth int) string {

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"),
		strings.Contains(ua, "tablet"):
		return "Tablet"
	case strings.Contains(ua, "mobile"),
		strings.Contains(ua, "iphone"),
		strings.Contains(ua, "ipod"):
		return "Mobile"
	case viewportWidth > 0 && viewportWidth < 768:
		return "Mobile"
	}

	return "Desktop"
}

// BrowserFamily classifies the browser. Edge must win over Chrome and
// Chrome over Safari.
func BrowserFamily(userAgent string) string {

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome"), strings.Contains(ua, "crios"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "firefox"), strings.Contains(ua, "fxios"):
		return "Firefox"
	case strings.Contains(ua, "opera"), strings.Contains(ua, "opr/"):
		return "Opera"
	case strings.Contains(ua, "msie"), strings.Contains(ua, "trident"):
		return "Internet Explorer"
	}

	return "Other"
}

// OSFamily classifies the operating system. iOS must win over macOS
// (iOS agents carry "like Mac OS X") and Android over Linux.
func OSFamily(userAgent string) string {

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "iphone"),
		strings.Contains(ua, "ipad"),
		strings.Contains(ua, "ipod"):
		return "iOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os x"), strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	case strings.Contains(ua, "cros"):
		return "Chrome OS"
	}

	return "Other"
}
