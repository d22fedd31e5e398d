package postgresrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farringdon-press/boxoffice/internal/domain"
)

// OrderRepo provides typed access to the orders table, keyed by the merchant
// order reference. Each call is atomic only with respect to itself; there is
// no cross-call transaction.
type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const orderColumns = `order_reference, product_type,
	customer_name, customer_email, customer_phone,
	ship_address, ship_city, ship_postcode,
	quantity, amount_total, currency,
	payment_session_id, payment_intent_id,
	status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		shipping domain.Shipping
	)

	err := row.Scan(
		&o.Reference, &o.ProductType,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&shipping.Address, &shipping.City, &shipping.Postcode,
		&o.Quantity, &o.AmountTotal, &o.Currency,
		&o.PaymentSessionID, &o.PaymentIntentID,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if o.ProductType == domain.ProductBook {
		o.Shipping = &shipping
	}

	return &o, nil
}

// Create inserts a new order row. A duplicate reference surfaces as
// repository.ErrConflict. The database assigns created_at/updated_at, which
// are written back into o.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	const op = "postgresrepo.OrderRepo.Create"

	db := r.handle()

	var ship domain.Shipping
	if o.Shipping != nil {
		ship = *o.Shipping
	}

	err := db.QueryRow(ctx,
		`INSERT INTO orders (
			order_reference, product_type,
			customer_name, customer_email, customer_phone,
			ship_address, ship_city, ship_postcode,
			quantity, amount_total, currency,
			payment_session_id, payment_intent_id, status
		 )
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		o.Reference, o.ProductType,
		o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		ship.Address, ship.City, ship.Postcode,
		o.Quantity, o.AmountTotal, o.Currency,
		o.PaymentSessionID, o.PaymentIntentID, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetByReference returns the order for ref, or repository.ErrNotFound.
func (r *OrderRepo) GetByReference(
	ctx context.Context,
	ref string,
) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.GetByReference"

	db := r.handle()

	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_reference = $1`,
		ref,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

// Update merges the non-nil patch fields into the row and refreshes
// updated_at. Absent rows surface as repository.ErrNotFound.
func (r *OrderRepo) Update(
	ctx context.Context,
	ref string,
	patch domain.OrderPatch,
) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.Update"

	o, err := r.update(ctx, ref, patch, nil)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

// UpdateIfStatus is the conditional variant of Update: the row is written
// only while its current status equals expected. A row that exists but fails
// the condition looks identical to a missing row (repository.ErrNotFound);
// callers disambiguate with GetByReference.
func (r *OrderRepo) UpdateIfStatus(
	ctx context.Context,
	ref string,
	expected domain.OrderStatus,
	patch domain.OrderPatch,
) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.UpdateIfStatus"

	o, err := r.update(ctx, ref, patch, &expected)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

func (r *OrderRepo) update(
	ctx context.Context,
	ref string,
	patch domain.OrderPatch,
	expected *domain.OrderStatus,
) (*domain.Order, error) {
	db := r.handle()

	set := []string{"updated_at = now()"}
	args := []any{ref}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.CustomerName != nil {
		add("customer_name", *patch.CustomerName)
	}
	if patch.CustomerEmail != nil {
		add("customer_email", *patch.CustomerEmail)
	}
	if patch.CustomerPhone != nil {
		add("customer_phone", *patch.CustomerPhone)
	}
	if patch.ShipAddress != nil {
		add("ship_address", *patch.ShipAddress)
	}
	if patch.ShipCity != nil {
		add("ship_city", *patch.ShipCity)
	}
	if patch.ShipPostcode != nil {
		add("ship_postcode", *patch.ShipPostcode)
	}
	if patch.PaymentIntentID != nil {
		add("payment_intent_id", *patch.PaymentIntentID)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	cond := "order_reference = $1"
	if expected != nil {
		args = append(args, *expected)
		cond = fmt.Sprintf("%s AND status = $%d", cond, len(args))
	}

	query := fmt.Sprintf(
		`UPDATE orders SET %s WHERE %s RETURNING %s`,
		strings.Join(set, ", "), cond, orderColumns,
	)

	return scanOrder(db.QueryRow(ctx, query, args...))
}
