package forms

import "github.com/gin-gonic/gin"

type LoginForm struct {
	Username string      `form:"username" binding:"required"`
	Password string      `form:"password" binding:"required"`
	Next     string      `form:"next"`
	Errors   FieldErrors `form:"-"`
}

func (f *LoginForm) Bind(c *gin.Context) bool {
	f.Errors = FieldErrors{}
	return bind(c, f, f.Errors)
}

type SignupForm struct {
	Username  string      `form:"username" binding:"required,max=150,username"`
	Password1 string      `form:"password1" binding:"required,min=8"`
	Password2 string      `form:"password2" binding:"required,eqfield=Password1"`
	Errors    FieldErrors `form:"-"`
}

func (f *SignupForm) Bind(c *gin.Context) bool {
	f.Errors = FieldErrors{}
	return bind(c, f, f.Errors)
}
