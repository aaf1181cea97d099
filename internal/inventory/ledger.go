package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
)

type Item struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type Shortage struct {
	ProductID   string
	ProductName string
	Size        string
	Requested   int
	Available   int
}

func (s Shortage) Message() string {
	name := s.ProductName
	if name == "" {
		name = s.ProductID
	}
	return fmt.Sprintf("%s (%s): %d available, %d requested", name, s.Size, s.Available, s.Requested)
}

func JoinMessages(shortages []Shortage) string {
	msgs := make([]string, 0, len(shortages))
	for _, s := range shortages {
		msgs = append(msgs, s.Message())
	}
	return strings.Join(msgs, ", ")
}

// Querier dipenuhi *pgxpool.Pool maupun pgx.Tx, supaya ledger bisa dipakai
// standalone (check) atau di dalam transaksi order (reserve).
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ledger memegang stok per (product, size). Semua mutasi lewat decrement
// kondisional; quantity tidak pernah negatif.
type Ledger struct {
	DB *pgxpool.Pool
}

// Shortages melaporkan item yg stoknya kurang, tanpa side effect.
// Hasil kosong berarti semua item terpenuhi.
func (l *Ledger) Shortages(ctx context.Context, items []Item) ([]Shortage, error) {
	var out []Shortage
	for _, it := range items {
		sh, err := shortageFor(ctx, l.DB, it)
		if err != nil {
			return nil, err
		}
		if sh.Available < sh.Requested {
			out = append(out, sh)
		}
	}
	return out, nil
}

// Reserve melakukan decrement kondisional per item di dalam transaksi caller.
// UPDATE dgn guard quantity >= n menutup race check-then-act: dua placement
// paralel tidak mungkin dua-duanya lolos kalau stok tidak cukup.
// Kalau ada item yg kalah race, shortage dikembalikan dan caller wajib rollback.
func (l *Ledger) Reserve(ctx context.Context, q Querier, items []Item) ([]Shortage, error) {
	var out []Shortage
	for _, it := range items {
		ct, err := q.Exec(ctx, `
			UPDATE product_stock SET quantity = quantity - $3
			WHERE product_id = $1 AND size = $2 AND quantity >= $3`,
			it.ProductID, it.Size, it.Qty)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() == 0 {
			sh, err := shortageFor(ctx, q, it)
			if err != nil {
				return nil, err
			}
			out = append(out, sh)
		}
	}
	return out, nil
}

// Release mengembalikan stok (refund sebelum barang dikirim).
func (l *Ledger) Release(ctx context.Context, q Querier, items []Item) error {
	for _, it := range items {
		if _, err := q.Exec(ctx, `
			UPDATE product_stock SET quantity = quantity + $3
			WHERE product_id = $1 AND size = $2`,
			it.ProductID, it.Size, it.Qty); err != nil {
			return err
		}
	}
	return nil
}

func shortageFor(ctx context.Context, q Querier, it Item) (Shortage, error) {
	sh := Shortage{ProductID: it.ProductID, Size: it.Size, Requested: it.Qty}
	err := q.QueryRow(ctx, `
		SELECT p.name, COALESCE(ps.quantity, 0)
		FROM products p
		LEFT JOIN product_stock ps ON ps.product_id = p.id AND ps.size = $2
		WHERE p.id = $1`,
		it.ProductID, it.Size).Scan(&sh.ProductName, &sh.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return sh, errs.Newf(errs.KindValidation, "product not found: %s", it.ProductID)
	}
	if err != nil {
		return sh, err
	}
	return sh, nil
}
