// Package service contains the application's business logic.
package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/validation"
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000

	SortNew     = "new"
	SortOld     = "old"
	SortPopular = "popular"
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
	images       *storage.ImageStore
	pageSize     int
}

type CreatePostInput struct {
	UserID       uint
	Title        string
	Slug         string
	Content      string
	CategorySlug string
	ImagePath    string
}

type UpdatePostInput struct {
	UserID       uint
	PostID       uint
	Title        string
	Slug         string
	Content      string
	CategorySlug string
	ImagePath    string
	RemoveImage  bool
}

type ListPostsInput struct {
	CategorySlug string
	Query        string
	Sort         string
	Page         int
}

// PostPage is one page of the post listing plus its pagination envelope.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalPosts int64          `json:"total_posts"`
	HasNext    bool           `json:"has_next"`
	HasPrev    bool           `json:"has_prev"`
}

// PostDetail is a single post with its comment thread.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

// BlogStats aggregates site-wide publishing numbers.
type BlogStats struct {
	TotalPosts   int64          `json:"total_posts"`
	TotalViews   int64          `json:"total_views"`
	RecentPosts  []*models.Post `json:"recent_posts"`
	PopularPosts []*models.Post `json:"popular_posts"`
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	commentRepo repository.CommentRepository,
	images *storage.ImageStore,
	pageSize int,
) *PostService {
	if pageSize <= 0 {
		pageSize = 3
	}
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
		images:       images,
		pageSize:     pageSize,
	}
}

// ListPosts returns one page of posts. A page below 1 is treated as the first
// page and a page past the end is clamped to the last one.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	opts := repository.ListOptions{
		Query: strings.TrimSpace(in.Query),
		Sort:  normalizeSort(in.Sort),
		Limit: s.pageSize,
	}

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, err
		}
		opts.CategoryID = &category.ID
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	// The unfiltered first page in default order is the hottest query on the
	// site, so it is served through the cache.
	if s.cacheableListing(in, page) {
		var cached PostPage
		err := cache.Aside(ctx, cache.FrontPageKey, &cached, cache.FrontPageTTL, func() error {
			fresh, fetchErr := s.fetchPage(ctx, opts, page)
			if fetchErr != nil {
				return fetchErr
			}
			cached = *fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	return s.fetchPage(ctx, opts, page)
}

func (s *PostService) cacheableListing(in ListPostsInput, page int) bool {
	return in.CategorySlug == "" &&
		strings.TrimSpace(in.Query) == "" &&
		normalizeSort(in.Sort) == SortNew &&
		page == 1
}

func (s *PostService) fetchPage(ctx context.Context, opts repository.ListOptions, page int) (*PostPage, error) {
	opts.Offset = (page - 1) * s.pageSize
	posts, total, err := s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	// Pages past the end resolve to the last page instead of an empty one.
	if page > totalPages {
		page = totalPages
		opts.Offset = (page - 1) * s.pageSize
		posts, total, err = s.postRepo.List(ctx, opts)
		if err != nil {
			return nil, err
		}
	}

	return &PostPage{
		Posts:      posts,
		Page:       page,
		TotalPages: totalPages,
		TotalPosts: total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func normalizeSort(sort string) string {
	switch sort {
	case SortOld, SortPopular:
		return sort
	default:
		return SortNew
	}
}

// GetPost resolves a post by its canonical id plus slug pair, records the
// view and returns the post with its comment thread.
func (s *PostService) GetPost(ctx context.Context, id uint, slug string) (*PostDetail, error) {
	post, err := s.postRepo.GetByIDAndSlug(ctx, id, slug)
	if err != nil {
		return nil, err
	}

	// The view bump is best effort. A failed counter update never blocks the
	// read path.
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		slog.WarnContext(ctx, "failed to increment post views", "post_id", post.ID, "error", err)
		observability.PostViews.WithLabelValues("error").Inc()
	} else {
		post.Views++
		observability.PostViews.WithLabelValues("counted").Inc()
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validatePostFields(in.Title, in.Content); err != nil {
		s.images.Remove(in.ImagePath)
		return nil, err
	}

	post := &models.Post{
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
		Image:   in.ImagePath,
		UserID:  in.UserID,
	}

	slug, err := resolvePostSlug(in.Slug, post.Title)
	if err != nil {
		s.images.Remove(in.ImagePath)
		return nil, err
	}
	post.Slug = slug

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			s.images.Remove(in.ImagePath)
			return nil, err
		}
		post.CategoryID = &category.ID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.images.Remove(in.ImagePath)
		if repository.IsDuplicateKey(err) {
			return nil, models.NewValidationError("A post with a very similar title already exists")
		}
		return nil, models.NewInternalError(err)
	}

	cache.InvalidatePosts(ctx)
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		s.images.Remove(in.ImagePath)
		return nil, err
	}
	if post.UserID != in.UserID {
		s.images.Remove(in.ImagePath)
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if err := s.validatePostFields(in.Title, in.Content); err != nil {
		s.images.Remove(in.ImagePath)
		return nil, err
	}

	post.Title = strings.TrimSpace(in.Title)
	slug, err := resolvePostSlug(in.Slug, post.Title)
	if err != nil {
		s.images.Remove(in.ImagePath)
		return nil, err
	}
	post.Slug = slug
	post.Content = in.Content

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			s.images.Remove(in.ImagePath)
			return nil, err
		}
		post.CategoryID = &category.ID
	} else {
		post.CategoryID = nil
	}

	oldImage := post.Image
	if in.ImagePath != "" {
		post.Image = in.ImagePath
	} else if in.RemoveImage {
		post.Image = ""
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.images.Remove(in.ImagePath)
		if repository.IsDuplicateKey(err) {
			return nil, models.NewValidationError("A post with a very similar title already exists")
		}
		return nil, models.NewInternalError(err)
	}

	// The old file is orphaned once the row points elsewhere or was cleared.
	if oldImage != "" && post.Image != oldImage {
		s.images.Remove(oldImage)
	}

	cache.InvalidatePosts(ctx)
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.images.Remove(post.Image)
	cache.InvalidatePosts(ctx)
	return nil
}

// LikePost bumps the post's like counter and returns the new total.
func (s *PostService) LikePost(ctx context.Context, postID uint) (int, error) {
	likes, err := s.postRepo.IncrementLikes(ctx, postID)
	if err != nil {
		return 0, err
	}
	return likes, nil
}

// Stats returns cached site-wide publishing numbers.
func (s *PostService) Stats(ctx context.Context) (*BlogStats, error) {
	var stats BlogStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		total, err := s.postRepo.CountAll(ctx)
		if err != nil {
			return err
		}
		views, err := s.postRepo.SumViews(ctx)
		if err != nil {
			return err
		}
		recent, err := s.postRepo.Recent(ctx, 5)
		if err != nil {
			return err
		}
		popular, err := s.postRepo.Popular(ctx, 5)
		if err != nil {
			return err
		}
		stats = BlogStats{
			TotalPosts:   total,
			TotalViews:   views,
			RecentPosts:  recent,
			PopularPosts: popular,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *PostService) validatePostFields(title, content string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

// resolvePostSlug picks the author-supplied slug when present, otherwise
// derives one from the title.
func resolvePostSlug(explicit, title string) (string, error) {
	if slug := strings.TrimSpace(explicit); slug != "" {
		if err := validation.ValidateSlug(slug); err != nil {
			return "", models.NewValidationError("Invalid slug: " + err.Error())
		}
		return slug, nil
	}
	slug := validation.Slugify(title)
	if validation.ValidateSlug(slug) != nil {
		return "", models.NewValidationError("Title must contain at least one letter or digit")
	}
	return slug, nil
}

