package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/forms"
	"newsboard/internal/handlers"
	"newsboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	news    *models.News
	author  *models.User
	comment *models.Comment
}

func setupComment(t *testing.T) commentFixture {
	t.Helper()
	author := createUser(t, "user")
	news := createNews(t, "News Title", time.Time{})
	return commentFixture{
		news:    news,
		author:  author,
		comment: createComment(t, news, author, "Valid comment"),
	}
}

func reload(t *testing.T, comment *models.Comment) models.Comment {
	t.Helper()
	var fresh models.Comment
	require.NoError(t, db.DB.First(&fresh, comment.ID).Error)
	return fresh
}

func TestAnonymousUserCantPostComment(t *testing.T) {
	app := newTestApp(t)
	news := createNews(t, "News Title", time.Time{})

	detail := handlers.DetailURL(news.ID)
	w := app.post(detail, url.Values{"text": {"Anonymous comment"}})

	assert.Equal(t, int64(0), countComments(t))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+detail, w.Header().Get("Location"))
}

func TestAuthorizedUserCanPostComment(t *testing.T) {
	app := newTestApp(t)
	news := createNews(t, "News Title", time.Time{})
	user := createUser(t, "user")
	app.login("user")

	w := app.post(handlers.DetailURL(news.ID), url.Values{"text": {"Authorized comment"}})

	require.Equal(t, int64(1), countComments(t))
	var comment models.Comment
	require.NoError(t, db.DB.First(&comment).Error)
	assert.Equal(t, "Authorized comment", comment.Text)
	assert.Equal(t, user.ID, comment.AuthorID)
	assert.Equal(t, news.ID, comment.NewsID)
	assert.False(t, comment.CreatedAt.IsZero())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handlers.DetailURL(news.ID)+"#comments", w.Header().Get("Location"))
}

func TestBadWordsInComment(t *testing.T) {
	app := newTestApp(t)
	news := createNews(t, "News Title", time.Time{})
	createUser(t, "user")
	app.login("user")

	w := app.post(handlers.DetailURL(news.ID), url.Values{"text": {"This is a " + forms.BadWords[0] + " comment"}})

	assert.Equal(t, int64(0), countComments(t))
	assert.Equal(t, http.StatusOK, w.Code)
	form := app.context()["Form"].(*forms.CommentForm)
	assert.Contains(t, form.Errors["text"], forms.Warning)
	assert.Contains(t, w.Body.String(), forms.Warning)
}

func TestEmptyCommentRejected(t *testing.T) {
	app := newTestApp(t)
	news := createNews(t, "News Title", time.Time{})
	createUser(t, "user")
	app.login("user")

	w := app.post(handlers.DetailURL(news.ID), url.Values{"text": {""}})

	assert.Equal(t, int64(0), countComments(t))
	assert.Equal(t, http.StatusOK, w.Code)
	form := app.context()["Form"].(*forms.CommentForm)
	assert.True(t, form.Errors.Has("text"))
}

func TestCommentOnMissingNews(t *testing.T) {
	app := newTestApp(t)
	createUser(t, "user")
	app.login("user")

	w := app.post(handlers.DetailURL(999), url.Values{"text": {"Hello"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(0), countComments(t))
}

func TestAuthorCanEditComment(t *testing.T) {
	app := newTestApp(t)
	fx := setupComment(t)
	app.login(fx.author.Username)

	w := app.post(handlers.EditURL(fx.comment.ID), url.Values{"text": {"Updated comment"}})

	assert.Equal(t, "Updated comment", reload(t, fx.comment).Text)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handlers.DetailURL(fx.news.ID)+"#comments", w.Header().Get("Location"))
}

func TestAuthorCantEditCommentWithBadWords(t *testing.T) {
	app := newTestApp(t)
	fx := setupComment(t)
	app.login(fx.author.Username)

	w := app.post(handlers.EditURL(fx.comment.ID), url.Values{"text": {forms.BadWords[1]}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Valid comment", reload(t, fx.comment).Text)
	form := app.context()["Form"].(*forms.CommentForm)
	assert.Contains(t, form.Errors["text"], forms.Warning)
}

func TestAuthorCanDeleteComment(t *testing.T) {
	app := newTestApp(t)
	fx := setupComment(t)
	app.login(fx.author.Username)

	w := app.post(handlers.DeleteURL(fx.comment.ID), nil)

	assert.Equal(t, int64(0), countComments(t))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handlers.DetailURL(fx.news.ID)+"#comments", w.Header().Get("Location"))
}

func TestUserCantEditOthersComment(t *testing.T) {
	app := newTestApp(t)
	fx := setupComment(t)
	createUser(t, "other_user")
	app.login("other_user")

	w := app.post(handlers.EditURL(fx.comment.ID), url.Values{"text": {"Unauthorized update"}})

	assert.NotEqual(t, "Unauthorized update", reload(t, fx.comment).Text)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserCantDeleteOthersComment(t *testing.T) {
	app := newTestApp(t)
	fx := setupComment(t)
	createUser(t, "other_user")
	app.login("other_user")

	w := app.post(handlers.DeleteURL(fx.comment.ID), nil)

	assert.Equal(t, int64(1), countComments(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
