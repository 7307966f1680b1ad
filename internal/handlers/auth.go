package handlers

import (
	"errors"
	"net/http"
	"strings"

	"newsboard/internal/db"
	"newsboard/internal/forms"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/middleware"
	"newsboard/internal/models"
	"newsboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	errBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	errThrottled      = "Too many failed login attempts. Please try again later."
	errUsernameTaken  = "A user with that username already exists."
)

type AuthHandler struct {
	limiter *utils.LoginLimiter
}

func NewAuthHandler(limiter *utils.LoginLimiter) *AuthHandler {
	return &AuthHandler{limiter: limiter}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title": "Log in",
		"Form":  &forms.LoginForm{Next: c.Query("next"), Errors: forms.FieldErrors{}},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	form := &forms.LoginForm{}
	render := func(code int) {
		Render(c, code, "auth/login.html", gin.H{"Title": "Log in", "Form": form})
	}

	if !form.Bind(c) {
		render(http.StatusBadRequest)
		return
	}

	key := strings.ToLower(form.Username)
	if h.limiter.Blocked(key) {
		metrics.Logins.WithLabelValues("throttled").Inc()
		form.Errors.Add(forms.NonFieldErrors, errThrottled)
		render(http.StatusTooManyRequests)
		return
	}

	var user models.User
	err := db.DB.Where("username = ?", form.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, err)
		return
	}
	if err != nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		failures := h.limiter.Fail(key)
		metrics.Logins.WithLabelValues("failure").Inc()
		logger.Log.WithFields(logger.Fields{
			"username": form.Username,
			"failures": failures,
		}).Warn("Login failed")
		form.Errors.Add(forms.NonFieldErrors, errBadCredentials)
		render(http.StatusUnauthorized)
		return
	}
	h.limiter.Reset(key)

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		serverError(c, err)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()

	c.Redirect(http.StatusFound, utils.SafeNext(form.Next, "/"))
}

// Logout accepts GET and POST and always shows the logged out page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		serverError(c, err)
		return
	}
	// The user loaded earlier in this request is gone now.
	c.Set(middleware.CheckUserKey, (*models.User)(nil))

	Render(c, http.StatusOK, "auth/logout.html", gin.H{"Title": "Logged out"})
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", gin.H{
		"Title": "Sign up",
		"Form":  &forms.SignupForm{Errors: forms.FieldErrors{}},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	form := &forms.SignupForm{}
	render := func(code int) {
		Render(c, code, "auth/signup.html", gin.H{"Title": "Sign up", "Form": form})
	}

	if !form.Bind(c) {
		render(http.StatusBadRequest)
		return
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
		serverError(c, err)
		return
	}
	if count > 0 {
		form.Errors.Add("username", errUsernameTaken)
		render(http.StatusConflict)
		return
	}

	user, err := db.CreateUser(db.DB, form.Username, form.Password1)
	if err != nil {
		serverError(c, err)
		return
	}
	logger.Log.WithField("user_id", user.ID).Info("User signed up")

	c.Redirect(http.StatusFound, middleware.LoginPath)
}
