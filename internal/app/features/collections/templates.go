package collections

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "collections",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
