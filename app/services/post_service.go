package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostInput is the create/edit post form. Image is optional.
type PostInput struct {
	Title    string  `form:"title" json:"title" validate:"required,max=250"`
	Subtitle string  `form:"subtitle" json:"subtitle" validate:"required,max=250"`
	Body     string  `form:"body" json:"body" validate:"required"`
	Image    *Upload `form:"-" json:"-" validate:"-"`
}

// PostConfig holds the listing settings injected into PostService.
type PostConfig struct {
	PageSize     int
	PopularLimit int
	DefaultImage string
}

// Page is one page of a post listing or search.
type Page struct {
	Posts      []*models.Post `json:"posts"`
	Number     int            `json:"page"`
	Size       int            `json:"page_size"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
	Keyword    string         `json:"keyword,omitempty"`
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }
func (p *Page) PrevPage() int { return p.Number - 1 }
func (p *Page) NextPage() int { return p.Number + 1 }

// PostView is a single post as shown to one viewer.
type PostView struct {
	Post      *models.Post      `json:"post"`
	Comments  []*models.Comment `json:"comments"`
	SaveCount int64             `json:"save_count"`
	Saved     bool              `json:"saved"`
}

// PostService handles business logic for blog posts
type PostService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	saves    repositories.SaveRepository
	images   *ImageStore
	cfg      PostConfig
	logger   *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, comments repositories.CommentRepository, saves repositories.SaveRepository, images *ImageStore, cfg PostConfig, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 5
	}
	if cfg.PopularLimit < 1 {
		cfg.PopularLimit = 5
	}
	return &PostService{
		posts:    posts,
		comments: comments,
		saves:    saves,
		images:   images,
		cfg:      cfg,
		logger:   logger,
	}
}

// PageSize returns the configured listing page size.
func (s *PostService) PageSize() int {
	return s.cfg.PageSize
}

// List returns page n of all posts, newest first. Pages below 1 are read
// as page 1.
func (s *PostService) List(ctx context.Context, n int) (*Page, error) {
	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	page := s.newPage(n, total)
	page.Posts, err = s.posts.List(ctx, page.Size, (page.Number-1)*page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return page, nil
}

// Search returns page n of posts whose title contains keyword, ignoring
// case. An empty keyword matches every post.
func (s *PostService) Search(ctx context.Context, keyword string, n int) (*Page, error) {
	total, err := s.posts.CountSearch(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}
	page := s.newPage(n, total)
	page.Keyword = keyword
	page.Posts, err = s.posts.Search(ctx, keyword, page.Size, (page.Number-1)*page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return page, nil
}

func (s *PostService) newPage(n int, total int64) *Page {
	if n < 1 {
		n = 1
	}
	size := s.cfg.PageSize
	return &Page{
		Number:     n,
		Size:       size,
		Total:      total,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}

// Popular returns the most viewed posts. Ties keep insertion order.
func (s *PostService) Popular(ctx context.Context) ([]*models.Post, error) {
	return s.posts.Popular(ctx, s.cfg.PopularLimit)
}

// Get retrieves a post without touching its view count.
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// View counts a view of the post and loads everything the post page shows.
// viewerID is 0 for anonymous readers.
func (s *PostService) View(ctx context.Context, id, viewerID int) (*PostView, error) {
	if err := s.posts.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.Load(ctx, id, viewerID)
}

// Load is View without counting a view.
func (s *PostService) Load(ctx context.Context, id, viewerID int) (*PostView, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &PostView{Post: post}
	if view.Comments, err = s.comments.ListByPost(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	if view.SaveCount, err = s.saves.CountByPost(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to count saves: %w", err)
	}
	if viewerID != 0 {
		if view.Saved, err = s.saves.Exists(ctx, viewerID, id); err != nil {
			return nil, fmt.Errorf("failed to check save: %w", err)
		}
	}
	return view, nil
}

// Create publishes a new post written by author.
func (s *PostService) Create(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Body:        in.Body,
		Image:       s.cfg.DefaultImage,
		AuthorID:    author.ID,
		PublishedAt: time.Now(),
	}
	if in.Image != nil {
		url, err := s.images.URL(in.Image.Filename)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	// The file is written only once the row exists, so a rejected post
	// never replaces an image another post uses.
	if in.Image != nil {
		if _, err := s.images.Save(in.Image); err != nil {
			if _, delErr := s.posts.Delete(ctx, post.ID); delErr != nil {
				s.logger.Error("Failed to remove post after upload error",
					slog.Int("post_id", post.ID), slog.String("error", delErr.Error()))
			}
			return nil, err
		}
	}
	s.logger.Info("Post created", slog.Int("post_id", post.ID), slog.Int("author_id", author.ID))
	return post, nil
}

// Edit overwrites the text fields of a post. The image is replaced only when
// a new one is uploaded. Views, publish date and author are preserved.
func (s *PostService) Edit(ctx context.Context, id int, in PostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	previousImage := post.Image
	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Body = in.Body
	if in.Image != nil {
		url, err := s.images.URL(in.Image.Filename)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if in.Image != nil {
		if _, err := s.images.Save(in.Image); err != nil {
			post.Image = previousImage
			if restoreErr := s.posts.Update(ctx, post); restoreErr != nil {
				s.logger.Error("Failed to restore post image after upload error",
					slog.Int("post_id", post.ID), slog.String("error", restoreErr.Error()))
			}
			return nil, err
		}
	}
	return post, nil
}

// Delete removes a post with its comments and saves in one transaction.
func (s *PostService) Delete(ctx context.Context, id int) (repositories.CascadeResult, error) {
	result, err := s.posts.Delete(ctx, id)
	if err != nil {
		return result, err
	}
	s.logger.Info("Post deleted",
		slog.Int("post_id", id),
		slog.Int64("comments", result.Comments),
		slog.Int64("saves", result.Saves))
	return result, nil
}
