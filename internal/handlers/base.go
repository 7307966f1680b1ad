package handlers

import (
	"fmt"
	"net/http"

	"newsboard/internal/logger"
	"newsboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, ok := middleware.CurrentUser(c); ok {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Title": http.StatusText(code)})
}

// NotFound renders a 404 page.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
}

// serverError logs err against the request and renders a 500 page.
func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.Log.WithFields(logger.Fields{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.RequestIDKey),
	}).WithError(err).Error("Request handling failed")
	RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// DetailURL is the path of news:detail for id.
func DetailURL(id uint) string {
	return fmt.Sprintf("/news/%d/", id)
}

// EditURL is the path of news:edit for a comment id.
func EditURL(id uint) string {
	return fmt.Sprintf("/edit_comment/%d/", id)
}

// DeleteURL is the path of news:delete for a comment id.
func DeleteURL(id uint) string {
	return fmt.Sprintf("/delete_comment/%d/", id)
}

// commentsURL points at the comment list of a news page.
func commentsURL(newsID uint) string {
	return DetailURL(newsID) + "#comments"
}
