package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tiflisi/internal/http/handlers"
	"tiflisi/internal/repos"
)

func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var hashes []string
	require.NoError(t, db.Select(&hashes, `SELECT password_hash FROM users`))
	require.NotEmpty(t, hashes, "no users seeded")
	for _, h := range hashes {
		assert.NotContains(t, h, "Passw0rd!")
		assert.True(t, strings.HasPrefix(h, "$2"), "unexpected hash format: %s", h)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")))
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	attempt := func(pass, next string) *http.Response {
		return a.post("/login", "sid-login", url.Values{
			"email": {"nino@tiflisi.ge"}, "password": {pass}, "next": {next},
		})
	}

	bad := attempt("wrongpass!", "")
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)

	good := attempt("Passw0rd!", "/checkout")
	require.Equal(t, http.StatusFound, good.StatusCode)
	assert.Equal(t, "/checkout", good.Header.Get("Location"))

	// the session is now bound to the account
	profile := a.get("/profile", "sid-login")
	assert.Equal(t, http.StatusOK, profile.StatusCode)
	assert.Contains(t, body(t, profile), "nino@tiflisi.ge")

	// off-site next targets fall back to /
	offsite := attempt("Passw0rd!", "//evil.example/x")
	assert.Equal(t, "/", offsite.Header.Get("Location"))

	// five attempts per window, the sixth is throttled
	attempt("wrongpass!", "")
	attempt("wrongpass!", "")
	throttled := attempt("wrongpass!", "")
	assert.Equal(t, http.StatusTooManyRequests, throttled.StatusCode)
}

func TestRegisterLoginAndLogout(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	form := url.Values{
		"firstName": {"ლევან"}, "lastName": {"გელაშვილი"}, "email": {"Levan@Tiflisi.ge"},
		"password": {"Sup3rSecret!"}, "confirmPassword": {"Sup3rSecret!"},
	}

	resp := a.post("/register", "sid-reg", form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Header.Get("Location"))

	profile := a.get("/profile", "sid-reg")
	require.Equal(t, http.StatusOK, profile.StatusCode)
	assert.Contains(t, body(t, profile), "levan@tiflisi.ge")

	dup := a.post("/register", "sid-other", form)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	form.Set("email", "new@tiflisi.ge")
	form.Set("confirmPassword", "different1!")
	mismatch := a.post("/register", "sid-other", form)
	assert.Equal(t, http.StatusBadRequest, mismatch.StatusCode)

	out := a.post("/logout", "sid-reg", nil)
	require.Equal(t, http.StatusFound, out.StatusCode)
	after := a.get("/profile", "sid-reg")
	assert.Equal(t, http.StatusFound, after.StatusCode)
	assert.True(t, strings.HasPrefix(after.Header.Get("Location"), "/login"))
}

func TestChangePassword(t *testing.T) {
	a := newTestApp(t, handlers.Backends{})
	a.login("sid-nino", "u-nino")

	wrong := a.post("/profile/change-password", "sid-nino", url.Values{
		"currentPassword": {"nope-nope1"}, "newPassword": {"N3wPassw0rd!"}, "confirmPassword": {"N3wPassw0rd!"},
	})
	assert.Equal(t, http.StatusBadRequest, wrong.StatusCode)

	ok := a.post("/profile/change-password", "sid-nino", url.Values{
		"currentPassword": {"Passw0rd!"}, "newPassword": {"N3wPassw0rd!"}, "confirmPassword": {"N3wPassw0rd!"},
	})
	require.Equal(t, http.StatusFound, ok.StatusCode)

	login := a.post("/login", "sid-fresh", url.Values{"email": {"nino@tiflisi.ge"}, "password": {"N3wPassw0rd!"}})
	assert.Equal(t, http.StatusFound, login.StatusCode)
}
