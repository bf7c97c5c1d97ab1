package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Authorization, Content-Type, X-Request-Id"
	// downloads carry the original file name in Content-Disposition
	corsExpose = "Content-Disposition, X-Request-Id"
	corsMaxAge = "600"
)

type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string
}

// newOriginMatcher accepts exact origins and "https://*.example.com" style
// subdomain patterns.
func newOriginMatcher(allowlist []string) *originMatcher {
	m := &originMatcher{exact: make(map[string]struct{}, len(allowlist))}
	for _, origin := range allowlist {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if scheme, host, ok := strings.Cut(origin, "://*."); ok {
			m.suffixes = append(m.suffixes, scheme+"://|."+host)
			continue
		}
		m.exact[origin] = struct{}{}
	}
	return m
}

func (m *originMatcher) empty() bool {
	return len(m.exact) == 0 && len(m.suffixes) == 0
}

func (m *originMatcher) allows(origin string) bool {
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, pattern := range m.suffixes {
		scheme, suffix, _ := strings.Cut(pattern, "|")
		rest, ok := strings.CutPrefix(origin, scheme)
		if ok && strings.HasSuffix(rest, suffix) && len(rest) > len(suffix) {
			return true
		}
	}
	return false
}

// CORS answers every origin when the allowlist is empty.
func CORS(allowlist []string) gin.HandlerFunc {
	matcher := newOriginMatcher(allowlist)
	allowAll := matcher.empty()
	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			header.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && matcher.allows(origin):
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
		default:
			origin = ""
		}
		if allowAll || origin != "" {
			header.Set("Access-Control-Allow-Methods", corsMethods)
			header.Set("Access-Control-Allow-Headers", corsHeaders)
			header.Set("Access-Control-Expose-Headers", corsExpose)
			header.Set("Access-Control-Max-Age", corsMaxAge)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
