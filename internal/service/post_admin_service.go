package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"campfire/internal/admin"
	"campfire/internal/models"
	"campfire/internal/repository"
)

const maxPostTitleLen = 120

// PostAdminService renders the post changelist and backs its change views.
type PostAdminService struct {
	posts repository.PostRepository
	admin func() admin.ModelAdmin
	now   func() time.Time
}

// ChangeListParams are the changelist query-string options.
type ChangeListParams struct {
	Query    string
	Updated  string
	Ordering string
	Limit    int
	Offset   int
}

type PostInput struct {
	Title   string
	Content string
}

// NewPostAdminService reads the post ModelAdmin from registry on every request,
// so overrides applied after startup take effect.
func NewPostAdminService(posts repository.PostRepository, registry *admin.Registry) *PostAdminService {
	return &PostAdminService{
		posts: posts,
		admin: func() admin.ModelAdmin {
			if m, ok := registry.Get("post"); ok {
				return m
			}
			return admin.PostModelAdmin()
		},
		now: time.Now,
	}
}

// ChangeList returns one page of posts projected onto list_display.
func (s *PostAdminService) ChangeList(ctx context.Context, p ChangeListParams) (*admin.ChangeList, error) {
	m := s.admin()

	q := repository.PostQuery{
		Search:       strings.TrimSpace(p.Query),
		SearchFields: m.SearchFields,
		Limit:        p.Limit,
		Offset:       p.Offset,
	}
	if q.Limit <= 0 || q.Limit > m.ListPerPage {
		q.Limit = m.ListPerPage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if p.Updated != "" {
		if !m.HasFilter("updated") {
			return nil, models.NewValidationError("Filtering by updated is not enabled")
		}
		since, err := admin.DateFilterSince(p.Updated, s.now())
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		q.UpdatedSince = since
	}

	field, desc := m.ParseOrdering(p.Ordering)
	q.OrderBy, q.Desc = field, desc

	posts, total, err := s.posts.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	cl := m.NewChangeList()
	cl.Search = q.Search
	cl.Ordering = field
	if desc {
		cl.Ordering = "-" + field
	}
	cl.Count = total
	cl.Limit = q.Limit
	cl.Offset = q.Offset
	for i := range posts {
		cl.Results = append(cl.Results, m.BuildRow(posts[i].ID, postValues(&posts[i])))
	}
	return cl, nil
}

func postValues(p *models.Post) map[string]interface{} {
	return map[string]interface{}{
		"id":        p.ID,
		"title":     p.Title,
		"content":   p.Content,
		"timestamp": p.CreatedAt,
		"updated":   p.UpdatedAt,
	}
}

func (s *PostAdminService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostAdminService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}
	post := &models.Post{Title: strings.TrimSpace(in.Title), Content: in.Content}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostAdminService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostAdminService) Delete(ctx context.Context, id uint) error {
	return s.posts.Delete(ctx, id)
}

func validatePostInput(in PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxPostTitleLen {
		return models.NewValidationError("Title too long (max 120 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return models.NewValidationError("Content is required")
	}
	return nil
}
