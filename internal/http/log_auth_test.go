package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/http/handlers"
)

func TestLoginLogsCarryEmail(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})

	entries := captureLogs(t, func() {
		resp := a.post("/login", "sid-l", url.Values{"email": {"nino@tiflisi.ge"}, "password": {"WrongPass1!"}})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
	e, ok := findLog(entries, "auth.login.fail")
	require.True(t, ok, "auth.login.fail not logged")
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "nino@tiflisi.ge", e.Fields["email"])
	assert.Equal(t, "bad_credentials", e.Fields["reason"])

	entries = captureLogs(t, func() {
		resp := a.post("/login", "sid-l", url.Values{"email": {"nino@tiflisi.ge"}, "password": {"Passw0rd!"}})
		require.Equal(t, http.StatusFound, resp.StatusCode)
	})
	e, ok = findLog(entries, "auth.login.success")
	require.True(t, ok, "auth.login.success not logged")
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "nino@tiflisi.ge", e.Fields["email"])

	for _, en := range entries {
		for _, v := range en.Fields {
			assert.NotEqual(t, "Passw0rd!", v, "password leaked into %s", en.Action)
		}
	}
}
