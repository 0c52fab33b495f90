package controllers

import (
	"net/http"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	*Base
	comments *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(base *Base, comments *services.CommentService) *CommentController {
	return &CommentController{Base: base, comments: comments}
}

// Delete handles GET /delete/comment/{postId}/{commentId}. Only the
// comment's author may delete it.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok1 := pathID(r, "postId")
	commentID, ok2 := pathID(r, "commentId")
	if !ok1 || !ok2 {
		cc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	}

	if _, ok := cc.ownedComment(w, r, cc.comments, postID, commentID); !ok {
		return
	}
	err := cc.comments.Delete(r.Context(), middleware.CurrentUser(r.Context()), postID, commentID)
	if err != nil {
		cc.fail(w, r, err, "Comment")
		return
	}
	cc.redirect(w, r, postURL(postID), http.StatusOK, map[string]int{"deleted": commentID})
}

// List handles GET /api/posts/{id}/comments
func (cc *CommentController) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		cc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	comments, err := cc.comments.ListByPost(r.Context(), postID)
	if err != nil {
		cc.fail(w, r, err, "Post")
		return
	}
	cc.sendJSON(w, http.StatusOK, comments)
}

// ownedComment loads a comment of postID and checks that the requester wrote
// it. When it returns false the response has been written.
func (b *Base) ownedComment(w http.ResponseWriter, r *http.Request, comments *services.CommentService, postID, commentID int) (*models.Comment, bool) {
	comment, err := comments.Get(r.Context(), postID, commentID)
	if err != nil {
		b.fail(w, r, err, "Comment")
		return nil, false
	}
	if d := middleware.AuthorizeOwner(middleware.IdentityFrom(r.Context()), comment.AuthorID); !d.Allowed {
		middleware.Deny(w, r, d.Reason)
		return nil, false
	}
	return comment, true
}
