package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/logger"
	"newsboard/internal/models"
	"newsboard/internal/router"
	"newsboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password"

// recordingRenderer keeps the data of the last rendered template so tests
// can inspect the page context.
type recordingRenderer struct {
	inner render.HTMLRender

	mu   sync.Mutex
	name string
	data gin.H
}

func (r *recordingRenderer) Instance(name string, data any) render.Render {
	r.mu.Lock()
	r.name = name
	r.data, _ = data.(gin.H)
	r.mu.Unlock()
	return r.inner.Instance(name, data)
}

func (r *recordingRenderer) reset() {
	r.mu.Lock()
	r.name, r.data = "", nil
	r.mu.Unlock()
}

// testApp drives the real engine with a cookie-carrying client.
type testApp struct {
	t        *testing.T
	cfg      *config.Config
	engine   *gin.Engine
	renderer *recordingRenderer
	cookies  map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Silence()
	utils.PasswordCost = bcrypt.MinCost

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")},
		Session:  config.SessionConfig{Secret: "test-secret", Name: "newsboard_session", MaxAge: 3600},
		News:     config.NewsConfig{PerPage: 10},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}

	require.NoError(t, db.Init(cfg.Database))
	t.Cleanup(func() {
		_ = db.Close()
		db.DB = nil
	})

	engine, err := router.New(cfg)
	require.NoError(t, err)
	rec := &recordingRenderer{inner: engine.HTMLRender}
	engine.HTMLRender = rec

	return &testApp{
		t:        t,
		cfg:      cfg,
		engine:   engine,
		renderer: rec,
		cookies:  map[string]*http.Cookie{},
	}
}

func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	a.renderer.reset()
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil)
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, path, form)
}

// context returns the template data of the last response.
func (a *testApp) context() gin.H {
	a.renderer.mu.Lock()
	defer a.renderer.mu.Unlock()
	require.NotNil(a.t, a.renderer.data, "no template was rendered")
	return a.renderer.data
}

func (a *testApp) login(username string) {
	a.t.Helper()
	w := a.post("/auth/login/", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(a.t, http.StatusFound, w.Code, "login as %s failed", username)
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := db.CreateUser(db.DB, username, testPassword)
	require.NoError(t, err)
	return user
}

func createNews(t *testing.T, title string, date time.Time) *models.News {
	t.Helper()
	news := &models.News{Title: title, Text: "Some content", Date: date}
	require.NoError(t, db.DB.Create(news).Error)
	return news
}

func createComment(t *testing.T, news *models.News, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{NewsID: news.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, db.DB.Create(comment).Error)
	return comment
}

func countComments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(&models.Comment{}).Count(&n).Error)
	return n
}

// baseTime is a whole second so stored timestamps compare cleanly.
func baseTime() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
