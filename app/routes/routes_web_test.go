package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"inkwell/app/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndFlow(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	alice := app.browser(t)

	// register, log out, log back in
	alice.register("Alice", "alice@example.com")
	w := alice.get("/logout")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, alice.loggedIn())

	w = alice.postForm("/login", url.Values{"email": {"alice@example.com"}, "password": {"correct-horse"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.True(t, alice.loggedIn())

	// create a post
	post := app.createPost(t, alice, "Hello World")
	assert.Equal(t, 0, post.Views)

	w = alice.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World")

	// view it
	postPath := "/post/" + strconv.Itoa(post.ID)
	w = alice.get(postPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World body")

	// comment on it
	w = alice.postForm(postPath, url.Values{"action": {"comment"}, "comment_text": {"First!"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postPath, w.Header().Get("Location"))

	w = alice.get(postPath)
	assert.Contains(t, w.Body.String(), "First!")

	comments, err := app.store.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	// delete the comment
	w = alice.get(fmt.Sprintf("/delete/comment/%d/%d", post.ID, comments[0].ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	comments, err = app.store.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// an admin deletes the post
	admin := app.browser(t)
	admin.register("Admin", "admin@example.com")
	w = admin.get("/admin/delete/" + strconv.Itoa(post.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = alice.get(postPath)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewCounting(t *testing.T) {
	app := setupTestApp(t)
	author := app.browser(t)
	author.register("Author", "author@example.com")
	post := app.createPost(t, author, "Counted")
	postPath := "/post/" + strconv.Itoa(post.ID)

	reader := app.browser(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, reader.get(postPath).Code)
	}
	author.postForm(postPath, url.Values{"action": {"comment"}, "comment_text": {""}})

	stored, err := app.store.Posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Views)
}

func TestAuthorizationGate(t *testing.T) {
	app := setupTestApp(t)
	author := app.browser(t)
	author.register("Author", "author@example.com")
	post := app.createPost(t, author, "Guarded")
	postPath := "/post/" + strconv.Itoa(post.ID)

	subscriber := app.browser(t)
	subscriber.register("Sub", "sub@example.com")
	anonymous := app.browser(t)

	tests := []struct {
		name   string
		client *client
		path   string
		reason string
	}{
		{"anonymous add post", anonymous, "/admin/add_post", "anonymous"},
		{"anonymous profile", anonymous, "/profile", "anonymous"},
		{"anonymous save", anonymous, "/post/like/" + strconv.Itoa(post.ID), "anonymous"},
		{"anonymous dashboard", anonymous, "/admin", "anonymous"},
		{"subscriber dashboard", subscriber, "/admin", "not_admin"},
		{"subscriber users", subscriber, "/admin/users", "not_admin"},
		{"subscriber delete post", subscriber, "/admin/delete/" + strconv.Itoa(post.ID), "not_admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.client.get(tt.path)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
			assert.Equal(t, tt.reason, w.Header().Get(middleware.DeniedHeader))
		})
	}

	t.Run("anonymous comment", func(t *testing.T) {
		w := anonymous.postForm(postPath, url.Values{"comment_text": {"hi"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "anonymous", w.Header().Get(middleware.DeniedHeader))
	})

	t.Run("post survives denied delete", func(t *testing.T) {
		_, err := app.store.Posts.GetByID(context.Background(), post.ID)
		assert.NoError(t, err)
	})
}

func TestCommentOwnership(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	author := app.browser(t)
	author.register("Author", "author@example.com")
	post := app.createPost(t, author, "Thread")
	postPath := "/post/" + strconv.Itoa(post.ID)
	other := app.createPost(t, author, "Other thread")

	w := author.postForm(postPath, url.Values{"comment_text": {"mine"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	comments, err := app.store.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	commentID := comments[0].ID
	deletePath := fmt.Sprintf("/delete/comment/%d/%d", post.ID, commentID)

	stranger := app.browser(t)
	stranger.register("Stranger", "stranger@example.com")
	admin := app.browser(t)
	admin.register("Admin", "admin@example.com")

	for name, c := range map[string]*client{"stranger": stranger, "admin": admin} {
		t.Run(name+" cannot delete", func(t *testing.T) {
			w := c.get(deletePath)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "not_owner", w.Header().Get(middleware.DeniedHeader))
		})
		t.Run(name+" cannot edit", func(t *testing.T) {
			w := c.postForm(postPath, url.Values{
				"action":       {"edit_comment"},
				"comment_id":   {strconv.Itoa(commentID)},
				"comment_text": {"hijacked"},
			})
			assert.Equal(t, "not_owner", w.Header().Get(middleware.DeniedHeader))

			w = c.get(postPath + "?edit=" + strconv.Itoa(commentID))
			assert.Equal(t, "not_owner", w.Header().Get(middleware.DeniedHeader))
		})
	}

	t.Run("anonymous prefill is denied as anonymous", func(t *testing.T) {
		w := app.browser(t).get(postPath + "?edit=" + strconv.Itoa(commentID))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "anonymous", w.Header().Get(middleware.DeniedHeader))
	})

	comment, err := app.store.Comments.GetByID(ctx, commentID)
	require.NoError(t, err)
	assert.Equal(t, "mine", comment.Text)

	t.Run("wrong post is not found", func(t *testing.T) {
		w := author.get(fmt.Sprintf("/delete/comment/%d/%d", other.ID, commentID))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("author edits", func(t *testing.T) {
		w := author.get(postPath + "?edit=" + strconv.Itoa(commentID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="edit_comment"`)
		assert.Contains(t, w.Body.String(), ">mine</textarea>")

		w = author.postForm(postPath, url.Values{
			"action":       {"edit_comment"},
			"comment_id":   {strconv.Itoa(commentID)},
			"comment_text": {"edited"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		comment, err := app.store.Comments.GetByID(ctx, commentID)
		require.NoError(t, err)
		assert.Equal(t, "edited", comment.Text)
	})

	t.Run("author deletes", func(t *testing.T) {
		w := author.get(deletePath)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		_, err := app.store.Comments.GetByID(ctx, commentID)
		assert.Error(t, err)
	})
}

func TestAccountMessages(t *testing.T) {
	app := setupTestApp(t)
	first := app.browser(t)
	first.register("Ada", "ada@example.com")

	t.Run("duplicate email flashes and redirects to login", func(t *testing.T) {
		c := app.browser(t)
		w := c.postForm("/register", url.Values{
			"name":     {"Ada Again"},
			"email":    {"ADA@example.com"},
			"password": {"whatever"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.False(t, c.loggedIn())

		w = c.get("/login")
		assert.Contains(t, w.Body.String(), "You&#39;ve already signed up with that email, log in instead!")

		w = c.get("/login")
		assert.NotContains(t, w.Body.String(), "already signed up")
	})

	t.Run("login failures share one message", func(t *testing.T) {
		for _, form := range []url.Values{
			{"email": {"nobody@example.com"}, "password": {"correct-horse"}},
			{"email": {"ada@example.com"}, "password": {"wrong"}},
		} {
			c := app.browser(t)
			w := c.postForm("/login", form)
			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
			assert.False(t, c.loggedIn())

			w = c.get("/login")
			assert.Contains(t, w.Body.String(), "Invalid email or password, please try again.")
		}
	})

	t.Run("register validation redisplays form", func(t *testing.T) {
		c := app.browser(t)
		w := c.postForm("/register", url.Values{"name": {"No Email"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email is required")
		assert.Contains(t, w.Body.String(), `value="No Email"`)
	})

	t.Run("multi-byte password over the hash limit redisplays form", func(t *testing.T) {
		c := app.browser(t)
		w := c.postForm("/register", url.Values{
			"name":     {"Accent"},
			"email":    {"accent@example.com"},
			"password": {strings.Repeat("é", 40)},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Password must be at most 72 bytes")
		assert.Contains(t, w.Body.String(), `value="accent@example.com"`)
		assert.False(t, c.loggedIn())
	})
}

func TestSaveRoutes(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	reader := app.browser(t)
	reader.register("Reader", "reader@example.com")
	post := app.createPost(t, reader, "Bookmarked")
	postPath := "/post/" + strconv.Itoa(post.ID)

	user, err := app.store.Users.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)

	saved := func() bool {
		ok, err := app.store.Saves.Exists(ctx, user.ID, post.ID)
		require.NoError(t, err)
		return ok
	}

	reader.postForm(postPath, url.Values{"action": {"save"}})
	assert.True(t, saved())
	reader.postForm(postPath, url.Values{"action": {"save"}})
	count, err := app.store.Saves.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	w := reader.get("/profile")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bookmarked")

	reader.postForm(postPath, url.Values{"action": {"unsave"}})
	assert.False(t, saved())
	reader.get("/post/unlike/" + strconv.Itoa(post.ID))
	assert.False(t, saved())

	reader.get("/post/like/" + strconv.Itoa(post.ID))
	assert.True(t, saved())

	w = reader.get("/post/like/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileRoutes(t *testing.T) {
	app := setupTestApp(t)
	c := app.browser(t)
	c.register("Ada", "ada@example.com")

	w := c.get("/profile?is_edit=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/profile"`)

	w = c.postForm("/profile", url.Values{"name": {"Ada Lovelace"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	user, err := app.store.Users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)

	w = c.get("/profile/delete-image")
	require.Equal(t, http.StatusSeeOther, w.Code)
	user, err = app.store.Users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/static/img/user-icon.jpg", user.ProfileImage)
}

func TestInformationPages(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		path    string
		heading string
	}{
		{"/about", "<h1>About Inkwell</h1>"},
		{"/contact", "<h1>Contact</h1>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := app.browser(t).get(tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.heading)
			assert.Contains(t, w.Body.String(), `href="/about"`)

			w = app.api(t).get(tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"page":"`+strings.TrimPrefix(tt.path, "/")+`"`)
		})
	}
}
