package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router *mux.Router
	store  *repositories.Store
	svc    *services.Services
}

// setupTestApp wires the full stack over a temp SQLite file and an
// in-memory session store.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repositories.Open(filepath.Join(t.TempDir(), "blog.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	store := repositories.NewStore(db)
	t.Cleanup(func() { store.Close() })

	kv, err := repositories.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploadDir := t.TempDir()
	svc := services.New(services.Repositories{
		Posts:    store.Posts,
		Comments: store.Comments,
		Users:    store.Users,
		Saves:    store.Saves,
		Sessions: repositories.NewBadgerSessionStore(kv, time.Hour),
	}, services.Settings{
		Auth: services.AuthConfig{
			AdminEmails:         []string{"admin@example.com"},
			DefaultProfileImage: "/static/img/user-icon.jpg",
			BcryptCost:          bcrypt.MinCost,
		},
		Posts: services.PostConfig{
			PageSize:     5,
			PopularLimit: 5,
			DefaultImage: "/static/img/post-bg.jpg",
		},
		UploadDir: uploadDir,
		UploadURL: "/static/uploads",
	}, log)

	templates, err := views.Parse()
	require.NoError(t, err)

	router := SetupRoutes(Options{
		Services:  svc,
		Templates: templates,
		Logger:    log,
		Registry:  prometheus.NewRegistry(),
		StaticDir: t.TempDir(),
		UploadDir: uploadDir,
	})
	return &testApp{router: router, store: store, svc: svc}
}

// client carries cookies between requests like a browser.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
	json    bool
}

func (a *testApp) browser(t *testing.T) *client {
	return &client{t: t, router: a.router, cookies: map[string]*http.Cookie{}}
}

func (a *testApp) api(t *testing.T) *client {
	c := a.browser(t)
	c.json = true
	return c
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.json {
		req.Header.Set("Accept", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) loggedIn() bool {
	_, ok := c.cookies[middleware.SessionCookie]
	return ok
}

// register signs up through the HTTP form and leaves the client logged in.
func (c *client) register(name, email string) {
	c.t.Helper()
	w := c.postForm("/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {"correct-horse"},
	})
	require.Equal(c.t, http.StatusSeeOther, w.Code, w.Body.String())
	require.True(c.t, c.loggedIn())
}

func (a *testApp) createPost(t *testing.T, author *client, title string) *models.Post {
	t.Helper()
	w := author.postForm("/admin/add_post", url.Values{
		"title":    {title},
		"subtitle": {title + " subtitle"},
		"body":     {title + " body"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	posts, err := a.store.Posts.Search(context.Background(), title, 1, 0)
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	return posts[0]
}
