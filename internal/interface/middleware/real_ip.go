package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the originating client address and stores it under
// "real_ip" for the rate limiters and sign-in tracking downstream.
// CF-Connecting-IP wins over X-Forwarded-For (left-most hop), and
// c.ClientIP() is the fallback when neither header parses.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := headerIP(c, "CF-Connecting-IP"); ip != "" {
			c.Set("real_ip", ip)
		} else if ip := headerIP(c, "X-Forwarded-For"); ip != "" {
			c.Set("real_ip", ip)
		} else {
			c.Set("real_ip", c.ClientIP())
		}
		c.Next()
	}
}

// headerIP returns the left-most valid IP from a (possibly comma
// separated) header value, or "" when none parses.
func headerIP(c *gin.Context, name string) string {
	raw := c.GetHeader(name)
	if raw == "" {
		return ""
	}
	first, _, _ := strings.Cut(raw, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}
