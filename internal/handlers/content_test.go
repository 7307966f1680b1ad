package handlers_test

import (
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"newsboard/internal/db"
	"newsboard/internal/forms"
	"newsboard/internal/handlers"
	"newsboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createNewsList creates one more news item than fits on the home page,
// inserting odd days first so ordering cannot come from insertion order.
func createNewsList(t *testing.T, app *testApp) []*models.News {
	t.Helper()
	today := baseTime()
	count := app.cfg.News.PerPage + 1

	order := make([]int, 0, count)
	for i := 1; i < count; i += 2 {
		order = append(order, i)
	}
	for i := 0; i < count; i += 2 {
		order = append(order, i)
	}

	list := make([]*models.News, 0, count)
	for _, i := range order {
		list = append(list, createNews(t, fmt.Sprintf("News %d", i), today.Add(-time.Duration(i)*24*time.Hour)))
	}
	return list
}

func TestNewsCountOnHomePage(t *testing.T) {
	app := newTestApp(t)
	createNewsList(t, app)

	w := app.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	list := app.context()["NewsList"].([]models.News)
	assert.Len(t, list, app.cfg.News.PerPage)
}

func TestNewsOrderOnHomePage(t *testing.T) {
	app := newTestApp(t)
	createNewsList(t, app)

	app.get("/")
	list := app.context()["NewsList"].([]models.News)
	require.NotEmpty(t, list)

	assert.True(t, sort.SliceIsSorted(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	}), "news must be newest first")
	assert.Equal(t, "News 0", list[0].Title)
}

func TestHomePagination(t *testing.T) {
	app := newTestApp(t)
	createNewsList(t, app)

	w := app.get("/?page=2")
	require.Equal(t, http.StatusOK, w.Code)

	ctx := app.context()
	list := ctx["NewsList"].([]models.News)
	require.Len(t, list, 1)
	assert.Equal(t, fmt.Sprintf("News %d", app.cfg.News.PerPage), list[0].Title)
	assert.Equal(t, 2, ctx["CurrentPage"])
	assert.Equal(t, 2, ctx["TotalPages"])

	// Garbage page numbers fall back to the first page.
	app.get("/?page=abc")
	assert.Equal(t, 1, app.context()["CurrentPage"])
}

func TestHomePageCommentCounts(t *testing.T) {
	app := newTestApp(t)
	user := createUser(t, "commenter")
	news := createNews(t, "Discussed", baseTime())
	createNews(t, "Quiet", baseTime().Add(-time.Hour))
	createComment(t, news, user, "one")
	createComment(t, news, user, "two")

	app.get("/")
	list := app.context()["NewsList"].([]models.News)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].CommentCount)
	assert.Equal(t, 0, list[1].CommentCount)
}

func createNewsWithComments(t *testing.T) *models.News {
	t.Helper()
	user := createUser(t, "commenter")
	news := createNews(t, "News with comments", baseTime())

	now := baseTime()
	// Insert newest first so ordering cannot come from insertion order.
	for i := 4; i >= 0; i-- {
		comment := &models.Comment{
			NewsID:    news.ID,
			AuthorID:  user.ID,
			Text:      fmt.Sprintf("Comment %d", i),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.DB.Create(comment).Error)
	}
	return news
}

func TestCommentsOrderOnDetailPage(t *testing.T) {
	app := newTestApp(t)
	news := createNewsWithComments(t)

	w := app.get(handlers.DetailURL(news.ID))
	require.Equal(t, http.StatusOK, w.Code)

	ctx := app.context()
	assert.Equal(t, news.ID, ctx["News"].(models.News).ID)

	comments := ctx["Comments"].([]handlers.CommentView)
	require.Len(t, comments, 5)
	assert.True(t, sort.SliceIsSorted(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	}), "comments must be oldest first")
	assert.Equal(t, "Comment 0", comments[0].Text)
	assert.Equal(t, "commenter", comments[0].Author.Username)
}

func TestCommentFormForAnonymousUser(t *testing.T) {
	app := newTestApp(t)
	news := createNewsWithComments(t)

	app.get(handlers.DetailURL(news.ID))
	_, ok := app.context()["Form"]
	assert.False(t, ok)
}

func TestCommentFormForAuthorizedUser(t *testing.T) {
	app := newTestApp(t)
	news := createNewsWithComments(t)
	createUser(t, "user")
	app.login("user")

	app.get(handlers.DetailURL(news.ID))
	form, ok := app.context()["Form"]
	require.True(t, ok)
	assert.IsType(t, &forms.CommentForm{}, form)
}
