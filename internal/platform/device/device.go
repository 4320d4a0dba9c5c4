// Package device derives a coarse device description from the User-Agent
// header. The description is attached to sign-in audit events so operators can
// tell which platform a session was issued to; it is never used for
// authorization decisions.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Description is a parsed, human-oriented summary of the calling device.
type Description struct {
	OS       string
	Browser  string
	Platform string // "mobile" or "desktop"
}

// Describe parses a User-Agent string into a Description.
// Unknown or empty fields default to "unknown".
func Describe(userAgentString string) Description {
	d := Description{OS: "unknown", Browser: "unknown", Platform: "desktop"}
	if userAgentString == "" {
		return d
	}

	ua := useragent.New(userAgentString)

	if browser, _ := ua.Browser(); browser != "" {
		d.Browser = strings.ToLower(strings.TrimSpace(browser))
	}
	if os := ua.OS(); os != "" {
		d.OS = strings.ToLower(strings.TrimSpace(os))
	}
	if ua.Mobile() {
		d.Platform = "mobile"
	}
	return d
}

// Display returns a human-readable label such as "chrome on mac os x".
func (d Description) Display() string {
	if d.Browser == "unknown" && d.OS == "unknown" {
		return "unknown device"
	}
	return d.Browser + " on " + d.OS
}
