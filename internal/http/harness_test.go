package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/config"
	"tiflisi/internal/domain"
	"tiflisi/internal/http/handlers"
	"tiflisi/internal/kvstore"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
)

// testApp is the full router over an in-memory database, wired like main.
type testApp struct {
	t     *testing.T
	app   *fiber.App
	db    *sqlx.DB
	kv    *kvstore.Memory
	users *repos.UserRepo
	csrf  string
}

func newTestApp(t *testing.T, b handlers.Backends) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv := kvstore.NewMemory()
	if b.KV == nil {
		b.KV = kv
	}
	cfg := config.Config{DBDSN: ":memory:", MediaDir: t.TempDir()}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, BodyLimit: 1 << 20})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	handlers.Routes(app, handlers.NewDeps(db, cfg, b))

	ta := &testApp{t: t, app: app, db: db, kv: kv, users: repos.NewUserRepo(db)}
	resp := ta.get("/login", "")
	ta.csrf = cookie(resp, "csrf_")
	require.NotEmpty(t, ta.csrf, "csrf token missing")
	return ta
}

// login binds sid to a seeded account, skipping the form.
func (a *testApp) login(sid, userID string) {
	a.t.Helper()
	require.NoError(a.t, a.users.BindSession(sid, userID))
}

func (a *testApp) get(path, sid string) *http.Response {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func (a *testApp) post(path, sid string, form url.Values) *http.Response {
	a.t.Helper()
	return a.postWith(path, sid, form, nil)
}

// postWith is post with extra request headers.
func (a *testApp) postWith(path, sid string, form url.Values, header http.Header) *http.Response {
	a.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", a.csrf)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: a.csrf})
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

// postRaw posts without the csrf token.
func (a *testApp) postRaw(path, sid string, form url.Values) *http.Response {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func (a *testApp) settings(fn func(*domain.SiteSettings)) {
	a.t.Helper()
	svc := services.NewSettingsService(repos.NewSettingsRepo(a.db))
	st := svc.Current()
	fn(&st)
	require.NoError(a.t, svc.Save(st))
}

func (a *testApp) cart(sid string) []domain.CartLine {
	svc := services.NewCartService(a.kv, repos.NewProductRepo(a.db))
	return svc.Open(a.t.Context(), sid).Lines()
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs collects the structured log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	restore := applog.SetOutput(w)
	fn()
	restore()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
