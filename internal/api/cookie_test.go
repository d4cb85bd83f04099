package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
)

func requestWithCookie(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestCookieSigner_IssueAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	signer := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: now})

	cookie := signer.Issue()
	assert.Equal(t, "hz_last_booking", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	// Expires at local midnight: 9 hours left in the day.
	assert.Equal(t, int((9 * time.Hour).Seconds()), cookie.MaxAge)

	assert.True(t, signer.BookedToday(requestWithCookie(cookie)))
}

func TestCookieSigner_AbsentCookie(t *testing.T) {
	signer := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: time.Now()})
	assert.False(t, signer.BookedToday(requestWithCookie(nil)))
}

func TestCookieSigner_TamperedValue(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	signer := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: now})

	cookie := signer.Issue()

	// Forge tomorrow's date while keeping today's signature.
	parts := strings.SplitN(cookie.Value, ".", 2)
	require.Len(t, parts, 2)
	forged := &http.Cookie{Name: cookie.Name, Value: "2026-03-11." + parts[1]}

	assert.False(t, signer.BookedToday(requestWithCookie(forged)))
}

func TestCookieSigner_StaleDay(t *testing.T) {
	yesterday := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	signer := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: yesterday})
	cookie := signer.Issue()

	// Same signer key, next day: yesterday's valid cookie no longer counts.
	today := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: yesterday.AddDate(0, 0, 1)})
	assert.False(t, today.BookedToday(requestWithCookie(cookie)))
}

func TestCookieSigner_WrongSecret(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	signer := NewCookieSigner("hz_last_booking", "secret", clock.Fixed{T: now})
	other := NewCookieSigner("hz_last_booking", "different", clock.Fixed{T: now})

	cookie := signer.Issue()
	assert.False(t, other.BookedToday(requestWithCookie(cookie)))
}
