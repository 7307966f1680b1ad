// Package web embeds the HTML templates.
package web

import "embed"

//go:embed templates
var Templates embed.FS
