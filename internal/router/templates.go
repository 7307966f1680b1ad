package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/gin-contrib/multitemplate"
)

// views maps the names handlers render to their files under templates/views.
var views = map[string]string{
	"news/home.html":   "views/news/home.html",
	"news/detail.html": "views/news/detail.html",
	"news/edit.html":   "views/news/edit.html",
	"news/delete.html": "views/news/delete.html",
	"auth/login.html":  "views/auth/login.html",
	"auth/logout.html": "views/auth/logout.html",
	"auth/signup.html": "views/auth/signup.html",
	"error.html":       "views/error.html",
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"sub": func(a, b int) int {
		return a - b
	},
	"formatDate": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
	"timeAgo": timeAgo,
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// loadTemplates parses every view together with the shared layouts and
// includes. The layout is parsed first so it is the template executed.
func loadTemplates(fsys fs.FS) (multitemplate.Render, error) {
	fsys, err := fs.Sub(fsys, "templates")
	if err != nil {
		return nil, err
	}

	var shared []string
	for _, pattern := range []string{"layouts/*.html", "includes/*.html"} {
		files, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			b, err := fs.ReadFile(fsys, f)
			if err != nil {
				return nil, err
			}
			shared = append(shared, string(b))
		}
	}

	r := multitemplate.New()
	for name, path := range views {
		view, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}

		tmpl := template.New(name).Funcs(funcMap)
		for _, src := range append(append([]string{}, shared...), string(view)) {
			if tmpl, err = tmpl.Parse(src); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
		}
		r.Add(name, tmpl)
	}
	return r, nil
}
