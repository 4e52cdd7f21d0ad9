package useragent

import (
	"net/http"
	"strings"
)

// Client classifies the caller for game records: "mobile", "browser",
// "script" (curl, Go, Python clients) or "unknown".
func Client(r *http.Request) string {
	ua := strings.ToLower(r.Header.Get("User-Agent"))
	switch {
	case ua == "":
		return "unknown"
	case strings.Contains(ua, "android"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "mobile"
	case strings.HasPrefix(ua, "mozilla/"):
		return "browser"
	case strings.HasPrefix(ua, "curl/"), strings.HasPrefix(ua, "go-http-client"), strings.HasPrefix(ua, "python"):
		return "script"
	}
	return "unknown"
}
