package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const clientIDHeader = "X-Client-ID"

// providedClientID returns the page id sent with the request, or "" when
// it is missing or not a UUID.
func providedClientID(c *gin.Context) string {
	candidates := []string{c.Query("client"), c.GetHeader(clientIDHeader)}
	if c.Request.PostForm != nil {
		candidates = append(candidates, c.Request.PostForm.Get("client"))
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}
	return ""
}

// resolveClientID keeps the page's id or mints a new one.
func resolveClientID(c *gin.Context) string {
	if id := providedClientID(c); id != "" {
		return id
	}
	return uuid.NewString()
}
