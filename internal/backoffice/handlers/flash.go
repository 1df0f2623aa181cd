package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "backoffice_flash"
	flashMaxAge = 60

	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Flash is a one-shot message shown by the next list view.
type Flash struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func setFlash(c *gin.Context, f Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", false, true)
}

// takeFlash returns the pending flash, if any, and clears it.
func takeFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// redirect sends the client to location with a flash message.
func redirect(c *gin.Context, location string, f Flash) {
	setFlash(c, f)
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}
