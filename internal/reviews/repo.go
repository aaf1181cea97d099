package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
)

type Repo struct {
	DB *pgxpool.Pool
}

// Insert menyimpan review baru. Duplikat (user, product, size) yg masih
// aktif ditolak oleh partial unique index — tetap benar di bawah submit
// paralel, bukan sekadar cek aplikasi.
func (r *Repo) Insert(ctx context.Context, rv *Review) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO reviews (id, user_id, product_id, size, content, rate, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		rv.ID, rv.UserID, rv.Item.ProductID, rv.Item.Size, rv.Content, rv.Rate, rv.Image).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if isUniqueViolation(err, "ux_reviews_active") {
		return errs.New(errs.KindDuplicateReview, "you already reviewed this product and size")
	}
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (*Review, error) {
	rv := &Review{ID: id}
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, product_id, size, content, rate, COALESCE(image, ''), is_deleted, created_at, updated_at
		FROM reviews WHERE id = $1`, id).
		Scan(&rv.UserID, &rv.Item.ProductID, &rv.Item.Size, &rv.Content, &rv.Rate, &rv.Image,
			&rv.IsDeleted, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.New(errs.KindNotFound, "review not found")
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Update menimpa tiga field mutable saja.
func (r *Repo) Update(ctx context.Context, rv *Review) error {
	return r.DB.QueryRow(ctx, `
		UPDATE reviews SET content = $2, rate = $3, image = $4, updated_at = now()
		WHERE id = $1 RETURNING updated_at`,
		rv.ID, rv.Content, rv.Rate, rv.Image).Scan(&rv.UpdatedAt)
}

// MarkDeleted set tombstone; record tetap ada dan masih bisa diambil by id.
func (r *Repo) MarkDeleted(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE reviews SET is_deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]ReviewView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rv.id, rv.user_id, u.name, rv.product_id, p.name, rv.size,
		       rv.content, rv.rate, COALESCE(rv.image, ''), rv.created_at, rv.updated_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		JOIN products p ON p.id = rv.product_id
		WHERE rv.product_id = $1 AND NOT rv.is_deleted
		ORDER BY rv.created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReviewView{}
	for rows.Next() {
		var v ReviewView
		if err := rows.Scan(&v.ID, &v.UserID, &v.UserName, &v.Item.ProductID, &v.ProductName,
			&v.Item.Size, &v.Content, &v.Rate, &v.Image, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
