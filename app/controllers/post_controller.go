package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	*Base
	posts    *services.PostService
	comments *services.CommentService
	saves    *services.SaveService
}

// NewPostController creates a new PostController
func NewPostController(base *Base, posts *services.PostService, comments *services.CommentService, saves *services.SaveService) *PostController {
	return &PostController{Base: base, posts: posts, comments: comments, saves: saves}
}

type indexData struct {
	Page    *services.Page `json:"page"`
	Popular []*models.Post `json:"popular"`
}

type postData struct {
	View        *services.PostView `json:"view"`
	EditComment *models.Comment    `json:"edit_comment,omitempty"`
	CommentText string             `json:"-"`
}

type postFormData struct {
	Post   *models.Post
	Form   services.PostInput
	Action string
}

// Index handles the paginated listing with the popular sidebar
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.posts.List(r.Context(), pageParam(r))
	if err != nil {
		pc.fail(w, r, err, "Page")
		return
	}
	pc.listing(w, r, page, "All Posts")
}

// Search handles title search with the same pagination as Index
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pc.posts.Search(r.Context(), r.URL.Query().Get("search"), pageParam(r))
	if err != nil {
		pc.fail(w, r, err, "Page")
		return
	}
	pc.listing(w, r, page, "Search")
}

func (pc *PostController) listing(w http.ResponseWriter, r *http.Request, page *services.Page, title string) {
	popular, err := pc.posts.Popular(r.Context())
	if err != nil {
		pc.fail(w, r, err, "Page")
		return
	}
	data := indexData{Page: page, Popular: popular}
	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, data)
		return
	}
	pc.render(w, r, http.StatusOK, "index", title, nil, data)
}

// Show handles displaying a single post. Every request counts as a view.
// ?edit={commentId} pre-fills the comment form for the comment's author.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}

	data := postData{}
	if editID := r.URL.Query().Get("edit"); editID != "" {
		commentID, err := strconv.Atoi(editID)
		if err != nil {
			pc.sendError(w, r, "Comment not found", http.StatusNotFound)
			return
		}
		comment, ok := pc.ownedComment(w, r, pc.comments, id, commentID)
		if !ok {
			return
		}
		data.EditComment = comment
		data.CommentText = comment.Text
	}

	pc.showPost(w, r, http.StatusOK, id, data, nil)
}

// showPost renders the post page. Only successful GETs count as a view;
// form redisplays load the post without counting.
func (pc *PostController) showPost(w http.ResponseWriter, r *http.Request, status, id int, data postData, errs map[string]string) {
	viewerID := 0
	if user := middleware.CurrentUser(r.Context()); user != nil {
		viewerID = user.ID
	}
	load := pc.posts.View
	if r.Method != http.MethodGet {
		load = pc.posts.Load
	}
	view, err := load(r.Context(), id, viewerID)
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	data.View = view

	if middleware.WantsJSON(r) {
		if errs != nil {
			pc.sendJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid comment", "fields": errs})
			return
		}
		pc.sendJSON(w, status, data)
		return
	}
	pc.render(w, r, status, "post", view.Post.Title, errs, data)
}

// Act handles the form posts on a post page: comment, edit_comment, save
// and unsave. Comment is the default action.
func (pc *PostController) Act(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}

	var in struct {
		Action    string `json:"action"`
		CommentID int    `json:"comment_id"`
		services.CommentInput
	}
	err := decodeForm(r, &in, func(get func(string) string) {
		in.Action = get("action")
		in.CommentID, _ = strconv.Atoi(get("comment_id"))
		in.Text = get("comment_text")
	})
	if err != nil {
		pc.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}

	switch in.Action {
	case "save":
		pc.toggleSave(w, r, id, true)
	case "unsave":
		pc.toggleSave(w, r, id, false)
	case "edit_comment":
		pc.editComment(w, r, id, in.CommentID, in.CommentInput)
	case "", "comment":
		pc.addComment(w, r, id, in.CommentInput)
	default:
		pc.sendError(w, r, "Unknown action", http.StatusBadRequest)
	}
}

func (pc *PostController) addComment(w http.ResponseWriter, r *http.Request, postID int, in services.CommentInput) {
	comment, err := pc.comments.Create(r.Context(), middleware.CurrentUser(r.Context()), postID, in)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		pc.showPost(w, r, http.StatusBadRequest, postID, postData{CommentText: in.Text}, verr.Fields)
		return
	}
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	pc.redirect(w, r, postURL(postID), http.StatusCreated, comment)
}

func (pc *PostController) editComment(w http.ResponseWriter, r *http.Request, postID, commentID int, in services.CommentInput) {
	existing, ok := pc.ownedComment(w, r, pc.comments, postID, commentID)
	if !ok {
		return
	}
	comment, err := pc.comments.Edit(r.Context(), middleware.CurrentUser(r.Context()), postID, commentID, in)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		pc.showPost(w, r, http.StatusBadRequest, postID, postData{EditComment: existing, CommentText: in.Text}, verr.Fields)
		return
	}
	if err != nil {
		pc.fail(w, r, err, "Comment")
		return
	}
	pc.redirect(w, r, postURL(postID), http.StatusOK, comment)
}

// SaveAlias handles GET /post/like/{id}
func (pc *PostController) SaveAlias(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r, "id"); ok {
		pc.toggleSave(w, r, id, true)
		return
	}
	pc.sendError(w, r, "Post not found", http.StatusNotFound)
}

// UnsaveAlias handles GET /post/unlike/{id}
func (pc *PostController) UnsaveAlias(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r, "id"); ok {
		pc.toggleSave(w, r, id, false)
		return
	}
	pc.sendError(w, r, "Post not found", http.StatusNotFound)
}

func (pc *PostController) toggleSave(w http.ResponseWriter, r *http.Request, postID int, save bool) {
	user := middleware.CurrentUser(r.Context())
	var err error
	if save {
		_, err = pc.saves.Save(r.Context(), user.ID, postID)
	} else {
		_, err = pc.saves.Unsave(r.Context(), user.ID, postID)
	}
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	pc.redirect(w, r, postURL(postID), http.StatusOK, map[string]any{"post_id": postID, "saved": save})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "post_form", "New Post", nil, postFormData{Action: "/admin/add_post"})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := readPostInput(r)
	defer cleanup()
	if err != nil {
		pc.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}

	post, err := pc.posts.Create(r.Context(), middleware.CurrentUser(r.Context()), in)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		pc.invalid(w, r, verr, "post_form", "New Post", postFormData{Form: in, Action: "/admin/add_post"})
		return
	}
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	pc.redirect(w, r, "/", http.StatusCreated, post)
}

// EditForm displays the edit form pre-filled with the post
func (pc *PostController) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	post, err := pc.posts.Get(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	form := services.PostInput{Title: post.Title, Subtitle: post.Subtitle, Body: post.Body}
	pc.render(w, r, http.StatusOK, "post_form", "Edit Post", nil, postFormData{Post: post, Form: form, Action: editURL(id)})
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	in, cleanup, err := readPostInput(r)
	defer cleanup()
	if err != nil {
		pc.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}

	post, err := pc.posts.Edit(r.Context(), id, in)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		existing, getErr := pc.posts.Get(r.Context(), id)
		if getErr != nil {
			pc.fail(w, r, getErr, "Post")
			return
		}
		pc.invalid(w, r, verr, "post_form", "Edit Post", postFormData{Post: existing, Form: in, Action: editURL(id)})
		return
	}
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	pc.redirect(w, r, postURL(id), http.StatusOK, post)
}

// Delete handles deleting a post with its comments and saves
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	result, err := pc.posts.Delete(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err, "Post")
		return
	}
	pc.redirect(w, r, "/", http.StatusOK, map[string]any{
		"deleted":  id,
		"comments": result.Comments,
		"saves":    result.Saves,
	})
}

func readPostInput(r *http.Request) (services.PostInput, func(), error) {
	var in services.PostInput
	cleanup := func() {}
	err := decodeForm(r, &in, func(get func(string) string) {
		in.Title = get("title")
		in.Subtitle = get("subtitle")
		in.Body = get("body")
	})
	if err != nil {
		return in, cleanup, err
	}
	in.Image, cleanup, err = formUpload(r, "image")
	return in, cleanup, err
}

func postURL(id int) string {
	return "/post/" + strconv.Itoa(id)
}

func editURL(id int) string {
	return "/admin/edit-post/" + strconv.Itoa(id)
}
