package controllers

import (
	"net/http"

	"inkwell/app/middleware"
	"inkwell/app/services"
)

// AdminController serves the read-only dashboard
type AdminController struct {
	*Base
	admin *services.AdminService
}

func NewAdminController(base *Base, admin *services.AdminService) *AdminController {
	return &AdminController{Base: base, admin: admin}
}

func (adc *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := adc.admin.Dashboard(r.Context())
	adc.respond(w, r, "admin", "Dashboard", d, err)
}

func (adc *AdminController) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := adc.admin.Posts(r.Context())
	adc.respond(w, r, "admin_posts", "Posts", posts, err)
}

func (adc *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := adc.admin.Users(r.Context())
	adc.respond(w, r, "admin_users", "Users", users, err)
}

func (adc *AdminController) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := adc.admin.Comments(r.Context())
	adc.respond(w, r, "admin_comments", "Comments", comments, err)
}

func (adc *AdminController) respond(w http.ResponseWriter, r *http.Request, name, title string, data any, err error) {
	if err != nil {
		adc.fail(w, r, err, title)
		return
	}
	if middleware.WantsJSON(r) {
		adc.sendJSON(w, http.StatusOK, data)
		return
	}
	adc.render(w, r, http.StatusOK, name, title, nil, data)
}
