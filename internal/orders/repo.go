package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
)

const (
	PageSize            = 3
	maxOrderNumAttempts = 3
)

type Filter struct {
	OrderNum string // substring match, case-insensitive
	Page     int    // 1-based; 0 = tanpa paging
}

type Repo struct {
	DB     *pgxpool.Pool
	Ledger *inventory.Ledger
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Create mem-persist order baru sekaligus reservasi stoknya dalam SATU
// transaksi: decrement stok dan row order commit bareng, atau tidak sama
// sekali. Nomor order diisi di sini; tabrakan unique index di-retry.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	for attempt := 0; attempt < maxOrderNumAttempts; attempt++ {
		num, err := NewOrderNum()
		if err != nil {
			return err
		}
		o.OrderNum = num
		err = r.createOnce(ctx, o)
		if isUniqueViolation(err, "orders_order_num_key") {
			continue
		}
		return err
	}
	return errs.New(errs.KindValidation, "could not allocate a unique order number")
}

func (r *Repo) createOnce(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	shortages, err := r.Ledger.Reserve(ctx, tx, ledgerItems(o.Items))
	if err != nil {
		return err
	}
	if len(shortages) > 0 {
		// rollback via defer; tidak ada decrement yg tertinggal
		return errs.New(errs.KindInsufficientStock, inventory.JoinMessages(shortages))
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_num, user_id, ship_to, contact, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNum, o.UserID, o.ShipTo, o.Contact, o.TotalPrice, o.Status).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, size, qty)
			VALUES ($1, $2, $3, $4)`,
			o.ID, it.ProductID, it.Size, it.Qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SetStatus menimpa status order lewat transition table. Refund sebelum
// barang dikirim mengembalikan stok yg tadinya di-reserve.
func (r *Repo) SetStatus(ctx context.Context, orderNum string, to Status) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o := &Order{OrderNum: orderNum}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, ship_to, contact, total_price, status, created_at, updated_at
		FROM orders WHERE order_num = $1 FOR UPDATE`, orderNum).
		Scan(&o.ID, &o.UserID, &o.ShipTo, &o.Contact, &o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.Newf(errs.KindNotFound, "order %s doesn't exist", orderNum)
	}
	if err != nil {
		return nil, err
	}

	o.Items, err = itemsFor(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if !CanTransition(from, to) {
		return nil, errs.Newf(errs.KindValidation, "illegal status transition: %s -> %s", from, to)
	}
	if from != to {
		if from == StatusPending && to == StatusRefund {
			if err := r.Ledger.Release(ctx, tx, ledgerItems(o.Items)); err != nil {
				return nil, err
			}
		}
		if err := tx.QueryRow(ctx, `
			UPDATE orders SET status = $2, updated_at = now()
			WHERE id = $1 RETURNING updated_at`, o.ID, to).Scan(&o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = to
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) GetStatus(ctx context.Context, orderNum string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE order_num = $1`, orderNum).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errs.Newf(errs.KindNotFound, "order %s doesn't exist", orderNum)
	}
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// List: filter substring order_num (case-insensitive), urutan stabil sesuai
// waktu dibuat, page size tetap. totalPageNum hanya dihitung saat paging.
func (r *Repo) List(ctx context.Context, f Filter) ([]OrderView, int, error) {
	const where = ` WHERE ($1 = '' OR o.order_num ILIKE '%' || $1 || '%')`

	totalPages := 0
	if f.Page > 0 {
		var total int
		if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+where, f.OrderNum).Scan(&total); err != nil {
			return nil, 0, err
		}
		totalPages = TotalPages(total)
	}

	q := selectViews + where + ` ORDER BY o.created_at, o.id`
	args := []any{f.OrderNum}
	if f.Page > 0 {
		q += ` LIMIT $2 OFFSET $3`
		args = append(args, PageSize, (f.Page-1)*PageSize)
	}
	views, err := r.queryViews(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return views, totalPages, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]OrderView, error) {
	return r.queryViews(ctx, selectViews+` WHERE o.user_id = $1 ORDER BY o.created_at, o.id`, userID)
}

func TotalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}

const selectViews = `
	SELECT o.id, o.order_num, o.user_id, u.name, u.email,
	       o.ship_to, o.contact, o.total_price, o.status, o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id`

func (r *Repo) queryViews(ctx context.Context, sql string, args ...any) ([]OrderView, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderView{}
	idx := map[string]int{}
	for rows.Next() {
		var v OrderView
		if err := rows.Scan(&v.ID, &v.OrderNum, &v.UserID, &v.UserName, &v.UserEmail,
			&v.ShipTo, &v.Contact, &v.TotalPrice, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		idx[v.ID] = len(out)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, v := range out {
		ids = append(ids, v.ID)
	}
	irows, err := r.DB.Query(ctx, `
		SELECT oi.order_id, oi.product_id, p.name, oi.size, oi.qty
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, ids)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var orderID string
		var iv ItemView
		if err := irows.Scan(&orderID, &iv.ProductID, &iv.ProductName, &iv.Size, &iv.Qty); err != nil {
			return nil, err
		}
		i := idx[orderID]
		out[i].Items = append(out[i].Items, iv)
	}
	return out, irows.Err()
}

func itemsFor(ctx context.Context, q rowQuerier, orderID string) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, size, qty FROM order_items
		WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Size, &it.Qty); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func ledgerItems(items []Item) []inventory.Item {
	out := make([]inventory.Item, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.Item{ProductID: it.ProductID, Size: it.Size, Qty: it.Qty})
	}
	return out
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
