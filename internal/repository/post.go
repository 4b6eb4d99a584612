package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"campfire/internal/models"

	"gorm.io/gorm"
)

// likeEscaper makes search terms match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// postColumns maps admin field names to sortable or searchable post columns.
var postColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"content":   "content",
	"timestamp": "created_at",
	"updated":   "updated_at",
}

// PostColumn resolves an admin field name to its column, reporting whether it is known.
func PostColumn(field string) (string, bool) {
	col, ok := postColumns[field]
	return col, ok
}

// PostQuery describes an admin changelist query over posts.
type PostQuery struct {
	// Search terms are split on whitespace; every term must match at least one SearchFields column.
	Search       string
	SearchFields []string
	UpdatedSince *time.Time
	OrderBy      string
	Desc         bool
	Limit        int
	Offset       int
}

// PostRepository defines persistence operations for blog posts.
type PostRepository interface {
	Query(ctx context.Context, q PostQuery) ([]models.Post, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Query(ctx context.Context, q PostQuery) ([]models.Post, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Post{})

	var searchCols []string
	for _, f := range q.SearchFields {
		if col, ok := PostColumn(f); ok {
			searchCols = append(searchCols, col)
		}
	}
	if len(searchCols) > 0 {
		for _, term := range strings.Fields(q.Search) {
			like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
			clauses := make([]string, len(searchCols))
			args := make([]interface{}, len(searchCols))
			for i, col := range searchCols {
				clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
				args[i] = like
			}
			tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}
	if q.UpdatedSince != nil {
		tx = tx.Where("updated_at >= ?", *q.UpdatedSince)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order, ok := PostColumn(q.OrderBy)
	if !ok {
		order = "updated_at"
	}
	if q.Desc {
		order += " DESC"
	}

	var posts []models.Post
	if err := tx.Order(order).Order("id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(post).Select("title", "content").Updates(post)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
