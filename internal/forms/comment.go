package forms

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BadWords are rejected anywhere inside comment text, ignoring case.
var BadWords = []string{
	"редиска",
	"негодяй",
}

// Warning is the field error shown when comment text contains a bad word.
const Warning = "Не ругайтесь!"

// ContainsBadWords reports whether text contains any of BadWords as a
// substring after lower-casing.
func ContainsBadWords(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range BadWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// CommentForm is used both to post a new comment and to edit one.
type CommentForm struct {
	Text   string      `form:"text" binding:"required,notblank,nobadwords"`
	Errors FieldErrors `form:"-"`
}

// NewCommentForm returns an unbound form, optionally prefilled.
func NewCommentForm(text string) *CommentForm {
	return &CommentForm{Text: text, Errors: FieldErrors{}}
}

// Bind reads the request body and validates it. It returns false when the
// form has errors.
func (f *CommentForm) Bind(c *gin.Context) bool {
	f.Errors = FieldErrors{}
	return bind(c, f, f.Errors)
}

func (f *CommentForm) Valid() bool {
	return len(f.Errors) == 0
}
