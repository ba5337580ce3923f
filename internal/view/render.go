package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/widget.html"))

// Page is the data behind the HTML widget page
type Page struct {
	Title string
	Query string
	View  ViewModel
}

// RenderPage writes the widget page
func RenderPage(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = "Météo Globale"
	}
	return pageTemplate.Execute(w, page)
}

// RenderText writes the terminal rendition of a view model
func RenderText(w io.Writer, vm ViewModel) error {
	var err error
	switch {
	case vm.Loading:
		_, err = fmt.Fprintln(w, LoadingMessage)
	case vm.Result != nil:
		r := vm.Result
		_, err = fmt.Fprintf(w,
			"%s\n  %s (ressenti %s)\n  Humidité:   %s\n  Vent:       %s\n  Conditions: %s\n",
			r.City, r.Temperature, r.FeelsLike, r.Humidity, r.Wind, r.Condition,
		)
	case vm.Error != "":
		_, err = fmt.Fprintf(w, "Erreur: %s\n", vm.Error)
	}
	return err
}
