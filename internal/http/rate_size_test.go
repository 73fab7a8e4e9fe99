package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/http/handlers"
)

func TestAvailabilityRateLimit(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	for i := 0; i < 15; i++ {
		resp := a.get("/api/v1/availability?productId=chokha-1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
	}
	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = a.get("/api/v1/availability?productId=chokha-1", "")
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_, ok := findLog(entries, "rate.availability.hit")
	assert.True(t, ok)
}

func TestContactRateLimit(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	form := url.Values{
		"name": {"გიორგი"}, "email": {"giorgi@tiflisi.ge"},
		"subject": {"მიწოდება"}, "message": {"ბათუმში რამდენ დღეში მოდის?"},
	}
	for i := 0; i < 5; i++ {
		resp := a.post("/contact", "sid-r", form)
		require.Equal(t, http.StatusFound, resp.StatusCode, "message %d", i+1)
	}
	resp := a.post("/contact", "sid-r", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestOversizeBodyRejected(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	big := strings.Repeat("a", (1<<20)+1024)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("message="+big))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.app.Test(req, -1)
	if err != nil {
		msg := strings.ToLower(err.Error())
		assert.True(t, strings.Contains(msg, "body size exceeds") || strings.Contains(msg, "too large"), err.Error())
		return
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
