package controllers

import (
	"errors"
	"net/http"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// ProfileController handles the current user's profile page
type ProfileController struct {
	*Base
	users *services.UserService
	saves *services.SaveService
}

func NewProfileController(base *Base, users *services.UserService, saves *services.SaveService) *ProfileController {
	return &ProfileController{Base: base, users: users, saves: saves}
}

type profileData struct {
	User    *models.User   `json:"user"`
	Saved   []*models.Post `json:"saved"`
	Editing bool           `json:"-"`
}

// Show displays the profile and saved posts; ?is_edit=1 shows the edit form.
func (prc *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	prc.show(w, r, http.StatusOK, r.URL.Query().Get("is_edit") != "", nil)
}

func (prc *ProfileController) show(w http.ResponseWriter, r *http.Request, status int, editing bool, errs map[string]string) {
	user := middleware.CurrentUser(r.Context())
	saved, err := prc.saves.SavedPosts(r.Context(), user.ID)
	if err != nil {
		prc.fail(w, r, err, "Profile")
		return
	}
	data := profileData{User: user, Saved: saved, Editing: editing}
	if middleware.WantsJSON(r) {
		prc.sendJSON(w, status, data)
		return
	}
	prc.render(w, r, status, "profile", user.Name, errs, data)
}

// Update changes the display name and optionally the profile image
func (prc *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	err := decodeForm(r, &in, func(get func(string) string) {
		in.Name = get("name")
	})
	if err != nil {
		prc.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}
	image, cleanup, err := formUpload(r, "image")
	defer cleanup()
	if err != nil {
		prc.sendError(w, r, "Invalid upload", http.StatusBadRequest)
		return
	}
	in.Image = image

	user, err := prc.users.UpdateProfile(r.Context(), middleware.CurrentUser(r.Context()), in)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		if middleware.WantsJSON(r) {
			prc.fail(w, r, err, "Profile")
			return
		}
		prc.show(w, r, http.StatusBadRequest, true, verr.Fields)
		return
	}
	if err != nil {
		prc.fail(w, r, err, "Profile")
		return
	}
	prc.redirect(w, r, "/profile", http.StatusOK, user)
}

// DeleteImage resets the profile image to the default
func (prc *ProfileController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	user, err := prc.users.ResetProfileImage(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		prc.fail(w, r, err, "Profile")
		return
	}
	prc.redirect(w, r, "/profile", http.StatusOK, user)
}
