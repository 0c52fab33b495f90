package controllers

import (
	"net/http"

	"inkwell/app/middleware"
)

// PageController serves the fixed informational pages
type PageController struct {
	*Base
}

func NewPageController(base *Base) *PageController {
	return &PageController{Base: base}
}

// About handles GET /about
func (pgc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pgc.page(w, r, "about", "About")
}

// Contact handles GET /contact
func (pgc *PageController) Contact(w http.ResponseWriter, r *http.Request) {
	pgc.page(w, r, "contact", "Contact")
}

func (pgc *PageController) page(w http.ResponseWriter, r *http.Request, name, title string) {
	if middleware.WantsJSON(r) {
		pgc.sendJSON(w, http.StatusOK, map[string]string{"page": name, "title": title})
		return
	}
	pgc.render(w, r, http.StatusOK, name, title, nil, nil)
}
