package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
)

// CookieSigner issues and verifies the once-per-day booking cookie.
// The value is the shop-local calendar day plus an HMAC-SHA256 tag, so
// a client cannot forge yesterday's date to bypass the daily limit.
type CookieSigner struct {
	name   string
	secret []byte
	clk    clock.Clock
}

func NewCookieSigner(name, secret string, clk clock.Clock) *CookieSigner {
	return &CookieSigner{name: name, secret: []byte(secret), clk: clk}
}

func (c *CookieSigner) day() string {
	return c.clk.Now().Format("2006-01-02")
}

func (c *CookieSigner) sign(day string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(day))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Issue returns the cookie marking a booking made today. Expires at
// the end of the shop-local day.
func (c *CookieSigner) Issue() *http.Cookie {
	day := c.day()
	now := c.clk.Now()
	midnight := clock.StartOfDay(now).AddDate(0, 0, 1)

	return &http.Cookie{
		Name:     c.name,
		Value:    day + "." + c.sign(day),
		Path:     "/",
		MaxAge:   int(midnight.Sub(now).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// BookedToday reports whether the request carries a valid cookie for
// the current shop-local day. Tampered or stale cookies count as
// absent.
func (c *CookieSigner) BookedToday(r *http.Request) bool {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return false
	}

	day, tag, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return false
	}
	if !hmac.Equal([]byte(tag), []byte(c.sign(day))) {
		return false
	}
	return day == c.day()
}
