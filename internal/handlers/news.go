package handlers

import (
	"errors"
	"html/template"
	"math"
	"net/http"

	"newsboard/internal/config"
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

type NewsHandler struct {
	perPage int
}

func NewNewsHandler(cfg config.NewsConfig) *NewsHandler {
	return &NewsHandler{perPage: cfg.PerPage}
}

// CommentView is a comment as shown under a news item.
type CommentView struct {
	models.Comment
	TextHTML template.HTML
}

// fillCommentCounts 批量填充新闻的评论数量
func fillCommentCounts(list []models.News) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]uint, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}

	type countResult struct {
		NewsID uint
		Count  int
	}
	var results []countResult
	err := db.DB.Model(&models.Comment{}).
		Select("news_id, COUNT(*) as count").
		Where("news_id IN ?", ids).
		Group("news_id").
		Scan(&results).Error
	if err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.NewsID] = r.Count
	}
	for i := range list {
		list[i].CommentCount = countMap[list[i].ID]
	}
	return nil
}

// Home lists the newest news items, one page at a time.
func (h *NewsHandler) Home(c *gin.Context) {
	page := 1
	if p := utils.StringToInt(c.Query("page")); p > 0 {
		page = p
	}

	var total int64
	if err := db.DB.Model(&models.News{}).Count(&total).Error; err != nil {
		serverError(c, err)
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(h.perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var list []models.News
	err := db.DB.Order("date DESC").Order("id DESC").
		Limit(h.perPage).
		Offset((page - 1) * h.perPage).
		Find(&list).Error
	if err != nil {
		serverError(c, err)
		return
	}
	if err := fillCommentCounts(list); err != nil {
		serverError(c, err)
		return
	}

	Render(c, http.StatusOK, "news/home.html", gin.H{
		"NewsList":    list,
		"Title":       "Latest news",
		"CurrentPage": page,
		"TotalPages":  totalPages,
	})
}

// loadNews fetches the news item named by the :id parameter, rendering a 404
// page when there is none.
func loadNews(c *gin.Context) (*models.News, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return nil, false
	}

	var news models.News
	if err := db.DB.First(&news, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c)
		} else {
			serverError(c, err)
		}
		return nil, false
	}
	return &news, true
}

// detailData loads everything the detail page shows except the form.
func detailData(news *models.News) (gin.H, error) {
	var comments []models.Comment
	err := db.DB.Preload("Author").
		Where("news_id = ?", news.ID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, len(comments))
	for i, com := range comments {
		views[i] = CommentView{
			Comment:  com,
			TextHTML: utils.RenderMarkdown(com.Text),
		}
	}

	return gin.H{
		"News":     *news,
		"NewsText": utils.RenderMarkdown(news.Text),
		"Comments": views,
		"Title":    news.Title,
	}, nil
}

// Detail shows a news item with its comments. Only logged in users get a
// comment form; for anonymous visitors the Form key is left out.
func (h *NewsHandler) Detail(c *gin.Context) {
	news, ok := loadNews(c)
	if !ok {
		return
	}

	data, err := detailData(news)
	if err != nil {
		serverError(c, err)
		return
	}
	if _, ok := middleware.CurrentUser(c); ok {
		data["Form"] = forms.NewCommentForm("")
	}

	Render(c, http.StatusOK, "news/detail.html", data)
}

// CreateComment handles the comment form posted to the detail page.
func (h *NewsHandler) CreateComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	news, ok := loadNews(c)
	if !ok {
		return
	}

	form := forms.NewCommentForm("")
	if !form.Bind(c) {
		metrics.CommentsRejected.WithLabelValues(rejectReason(form)).Inc()

		data, err := detailData(news)
		if err != nil {
			serverError(c, err)
			return
		}
		data["Form"] = form
		Render(c, http.StatusOK, "news/detail.html", data)
		return
	}

	comment := models.Comment{
		NewsID:   news.ID,
		AuthorID: user.ID,
		Text:     form.Text,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		serverError(c, err)
		return
	}
	metrics.CommentsCreated.Inc()
	logger.Log.WithFields(logger.Fields{
		"comment_id": comment.ID,
		"news_id":    news.ID,
		"author_id":  user.ID,
	}).Info("Comment created")

	c.Redirect(http.StatusFound, commentsURL(news.ID))
}

func rejectReason(form *forms.CommentForm) string {
	for _, msg := range form.Errors["text"] {
		if msg == forms.Warning {
			return "bad_words"
		}
	}
	return "invalid"
}
