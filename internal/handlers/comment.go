package handlers

import (
	"errors"
	"net/http"

	"newsboard/internal/db"
	"newsboard/internal/forms"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/middleware"
	"newsboard/internal/models"
	"newsboard/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// ownComment loads the :id comment among those written by the current user.
// Other users' comments are reported as missing so their existence is not
// revealed.
func ownComment(c *gin.Context) (*models.Comment, bool) {
	user, _ := middleware.CurrentUser(c)

	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return nil, false
	}

	var comment models.Comment
	err := db.DB.Where("id = ? AND author_id = ?", id, user.ID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
		} else {
			serverError(c, err)
		}
		return nil, false
	}
	return &comment, true
}

func (h *CommentHandler) ShowEdit(c *gin.Context) {
	comment, ok := ownComment(c)
	if !ok {
		return
	}

	Render(c, http.StatusOK, "news/edit.html", gin.H{
		"Title":   "Edit comment",
		"Comment": comment,
		"Form":    forms.NewCommentForm(comment.Text),
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := ownComment(c)
	if !ok {
		return
	}

	form := forms.NewCommentForm("")
	if !form.Bind(c) {
		metrics.CommentsRejected.WithLabelValues(rejectReason(form)).Inc()
		Render(c, http.StatusOK, "news/edit.html", gin.H{
			"Title":   "Edit comment",
			"Comment": comment,
			"Form":    form,
		})
		return
	}

	if err := db.DB.Model(comment).Update("text", form.Text).Error; err != nil {
		serverError(c, err)
		return
	}
	logger.Log.WithField("comment_id", comment.ID).Info("Comment updated")

	c.Redirect(http.StatusFound, commentsURL(comment.NewsID))
}

func (h *CommentHandler) ShowDelete(c *gin.Context) {
	comment, ok := ownComment(c)
	if !ok {
		return
	}

	Render(c, http.StatusOK, "news/delete.html", gin.H{
		"Title":   "Delete comment",
		"Comment": comment,
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := ownComment(c)
	if !ok {
		return
	}

	if err := db.DB.Delete(comment).Error; err != nil {
		serverError(c, err)
		return
	}
	logger.Log.WithField("comment_id", comment.ID).Info("Comment deleted")

	c.Redirect(http.StatusFound, commentsURL(comment.NewsID))
}
