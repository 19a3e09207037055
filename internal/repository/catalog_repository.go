package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// ProductRepository persists storefront products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// BlogRepository persists blog posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	List(ctx context.Context) ([]domain.Blog, error)
	Delete(ctx context.Context, id string) error
}

// ReviewRepository persists customer testimonials.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	List(ctx context.Context) ([]domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct{ pool *pgxpool.Pool }

type blogRepository struct{ pool *pgxpool.Pool }

type reviewRepository struct{ pool *pgxpool.Pool }

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

// NewBlogRepository instantiates repository.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, image_url, price, video_url, whatsapp_number)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.ImageURL, p.Price, p.VideoURL, p.WhatsappNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	const query = `
        SELECT id, name, description, image_url, price, video_url, whatsapp_number, created_at, updated_at
        FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price,
			&p.VideoURL, &p.WhatsappNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM products WHERE id=$1`, id)
}

func (r *blogRepository) Create(ctx context.Context, b *domain.Blog) error {
	const query = `
        INSERT INTO blogs (title, content, media_type, media_url)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, b.Title, b.Content, b.MediaType, b.MediaURL).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *blogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	const query = `
        SELECT id, title, content, media_type, media_url, created_at, updated_at
        FROM blogs ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Blog{}
	for rows.Next() {
		var b domain.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.MediaType, &b.MediaURL,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM blogs WHERE id=$1`, id)
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	const query = `
        INSERT INTO reviews (name, image_url, text)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, rv.Name, rv.ImageURL, rv.Text).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *reviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	const query = `
        SELECT id, name, image_url, text, created_at, updated_at
        FROM reviews ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.Name, &rv.ImageURL, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	return result, rows.Err()
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM reviews WHERE id=$1`, id)
}

// deleteByID runs a single-row delete and reports pgx.ErrNoRows when nothing matched.
func deleteByID(ctx context.Context, pool *pgxpool.Pool, query, id string) error {
	cmd, err := pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
