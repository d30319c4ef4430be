package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db   *pgxpool.Pool
	caps *Capabilities
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool, caps *Capabilities) *DeliveryRepo {
	return &DeliveryRepo{db: db, caps: caps}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx, caps: r.caps}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Get returns a delivery by id, or nil, nil when absent.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	return getDelivery(ctx, r.db, r.caps, "id", id, false)
}

// GetByOrderID returns the delivery of an order, or nil, nil when absent.
func (r *DeliveryRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	return getDelivery(ctx, r.db, r.caps, "order_id", orderID, false)
}

// List returns deliveries newest first.
func (r *DeliveryRepo) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	var out []domain.Delivery
	err := r.caps.run(ctx, r.db, "deliveries", func(q querier) error {
		sql := `SELECT ` + deliveryCols(r.caps) + ` FROM deliveries WHERE TRUE`
		args := make([]any, 0, 6)
		if f.AgentID != nil {
			args = append(args, *f.AgentID)
			sql += fmt.Sprintf(" AND agent_id = $%d", len(args))
		}
		if f.Status != nil {
			args = append(args, string(*f.Status))
			sql += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if f.OrderID != nil {
			args = append(args, *f.OrderID)
			sql += fmt.Sprintf(" AND order_id = $%d", len(args))
		}
		if f.Unassigned {
			args = append(args, string(domain.DeliveryAssigned))
			sql += fmt.Sprintf(" AND agent_id IS NULL AND status = $%d", len(args)) + `
                AND NOT EXISTS (
                    SELECT 1 FROM orders o
                    WHERE o.id = deliveries.order_id AND upper(o.status) IN ('CANCELLED', 'CANCELED')
                )`
		}
		sql += " ORDER BY created_at DESC, id"
		sql, args = paginate(sql, args, f.Limit, f.Offset)

		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]domain.Delivery, 0, capacity(f.Limit))
		for rows.Next() {
			d, err := scanDelivery(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return out, nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx   pgx.Tx
	caps *Capabilities
}

// GetByOrderID - get delivery by order ID.
func (r *TxRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	return getDelivery(ctx, r.tx, r.caps, "order_id", orderID, false)
}

// GetForUpdate - get delivery by ID and lock the row.
func (r *TxRepo) GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	return getDelivery(ctx, r.tx, r.caps, "id", id, true)
}

// Insert - insert a new delivery. A second delivery for the same order
// yields apperr.ErrConflict.
func (r *TxRepo) Insert(ctx context.Context, d *domain.Delivery) error {
	err := r.caps.run(ctx, r.tx, "deliveries", func(q querier) error {
		cols := []string{
			"id", "order_id", "status", "agent_id",
			"pickup_address", "pickup_latitude", "pickup_longitude",
			"dropoff_address", "dropoff_latitude", "dropoff_longitude",
			"assigned_at", "photo_url", "version", "created_at", "updated_at",
		}
		pLat, pLon := latLon(d.Pickup.Location)
		dLat, dLon := latLon(d.Dropoff.Location)
		args := []any{
			d.ID, d.OrderID, string(d.Status), d.AgentID,
			d.Pickup.Address, pLat, pLon,
			d.Dropoff.Address, dLat, dLon,
			d.AssignedAt, d.PhotoURL, d.Version, d.CreatedAt, d.UpdatedAt,
		}
		if r.caps.Supports(ColDeliveryNotes) {
			cols = append(cols, "notes")
			args = append(args, d.Notes)
		}
		if r.caps.Supports(ColDeliveryPhotoUploadedAt) {
			cols = append(cols, "photo_uploaded_at")
			args = append(args, d.PhotoUploadedAt)
		}
		_, err := q.Exec(ctx, fmt.Sprintf(`INSERT INTO deliveries (%s) VALUES (%s)`,
			strings.Join(cols, ", "), placeholders(len(args), 1)), args...)
		return err
	})
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("delivery for order %q: %w", d.OrderID, apperr.ErrConflict)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// Update - write every mutable field of d if its stored version still equals
// d.Version. On success d.Version and d.UpdatedAt reflect the new row.
func (r *TxRepo) Update(ctx context.Context, d *domain.Delivery) error {
	err := r.caps.run(ctx, r.tx, "deliveries", func(q querier) error {
		pLat, pLon := latLon(d.Pickup.Location)
		dLat, dLon := latLon(d.Dropoff.Location)
		sets := []string{
			"status", "agent_id",
			"pickup_latitude", "pickup_longitude",
			"dropoff_latitude", "dropoff_longitude",
			"assigned_at", "picked_up_at", "delivered_at", "photo_url",
		}
		args := []any{
			d.ID, d.Version,
			string(d.Status), d.AgentID,
			pLat, pLon,
			dLat, dLon,
			d.AssignedAt, d.PickedUpAt, d.DeliveredAt, d.PhotoURL,
		}
		if r.caps.Supports(ColDeliveryNotes) {
			sets = append(sets, "notes")
			args = append(args, d.Notes)
		}
		if r.caps.Supports(ColDeliveryPhotoUploadedAt) {
			sets = append(sets, "photo_uploaded_at")
			args = append(args, d.PhotoUploadedAt)
		}
		assign := make([]string, len(sets))
		for i, c := range sets {
			assign[i] = fmt.Sprintf("%s = $%d", c, i+3)
		}
		sql := fmt.Sprintf(`
            UPDATE deliveries
            SET %s, version = version + 1, updated_at = now()
            WHERE id = $1 AND version = $2
            RETURNING version, updated_at
        `, strings.Join(assign, ", "))
		return q.QueryRow(ctx, sql, args...).Scan(&d.Version, &d.UpdatedAt)
	})
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("delivery %q version %d: %w", d.ID, d.Version, apperr.ErrConflict)
		}
		return fmt.Errorf("update delivery %q: %w", d.ID, err)
	}
	return nil
}

// GetAgentForUpdate - get agent by ID and lock the row.
func (r *TxRepo) GetAgentForUpdate(ctx context.Context, id string) (*domain.Agent, error) {
	return getAgent(ctx, r.tx, id, true)
}

// SetAgentAvailability - toggle agent availability.
func (r *TxRepo) SetAgentAvailability(ctx context.Context, id string, available bool) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_agents
        SET is_available = $2, updated_at = now()
        WHERE id = $1
    `, id, available)
	if err != nil {
		return fmt.Errorf("update agent %q availability: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: "agent", ID: id}
	}
	return nil
}

// CompleteAgentDelivery - free the agent and count the finished delivery.
func (r *TxRepo) CompleteAgentDelivery(ctx context.Context, id string) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_agents
        SET is_available = TRUE,
            total_deliveries = total_deliveries + 1,
            updated_at = now()
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("complete agent %q delivery: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: "agent", ID: id}
	}
	return nil
}

// LockOrderStatus - read the order status and lock the row.
func (r *TxRepo) LockOrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	var raw string
	err := r.tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&raw)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("lock order %q: %w", orderID, err)
	}
	return domain.ParseOrderStatus(raw), nil
}

// SetOrderStatus - move the order along with its delivery. Cancelled and
// delivered orders are never moved.
func (r *TxRepo) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders SET status = $2
        WHERE id = $1 AND upper(status) NOT IN ('CANCELLED', 'CANCELED', 'DELIVERED')
    `, orderID, string(status))
	if err != nil {
		return fmt.Errorf("set order %q status: %w", orderID, err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}
	cur, err := r.LockOrderStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if cur == "" {
		return &apperr.NotFoundError{Resource: "order", ID: orderID}
	}
	return fmt.Errorf("order %q is %s: %w", orderID, cur, apperr.ErrInvalidTransition)
}

func deliveryCols(caps *Capabilities) string {
	return `id, order_id, status, agent_id,
        pickup_address, pickup_latitude, pickup_longitude,
        dropoff_address, dropoff_latitude, dropoff_longitude,
        assigned_at, picked_up_at, delivered_at, photo_url, ` +
		caps.expr(ColDeliveryPhotoUploadedAt, "", "NULL::timestamptz") + `, ` +
		caps.expr(ColDeliveryNotes, "", "NULL::text") + `,
        version, created_at, updated_at`
}

func getDelivery(ctx context.Context, q querier, caps *Capabilities, key, val string, lock bool) (*domain.Delivery, error) {
	var d domain.Delivery
	err := caps.run(ctx, q, "deliveries", func(q querier) error {
		sql := `SELECT ` + deliveryCols(caps) + ` FROM deliveries WHERE ` + key + ` = $1`
		if lock {
			sql += ` FOR UPDATE`
		}
		var err error
		d, err = scanDelivery(q.QueryRow(ctx, sql, val))
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by %s %q: %w", key, val, err)
	}
	return &d, nil
}

func scanDelivery(row pgx.Row) (domain.Delivery, error) {
	var (
		d          domain.Delivery
		pLat, pLon *float64
		dLat, dLon *float64
	)
	err := row.Scan(&d.ID, &d.OrderID, &d.Status, &d.AgentID,
		&d.Pickup.Address, &pLat, &pLon,
		&d.Dropoff.Address, &dLat, &dLon,
		&d.AssignedAt, &d.PickedUpAt, &d.DeliveredAt, &d.PhotoURL, &d.PhotoUploadedAt, &d.Notes,
		&d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Delivery{}, err
	}
	d.Pickup.Location = coords(pLat, pLon)
	d.Dropoff.Location = coords(dLat, dLon)
	return d, nil
}

func latLon(c *domain.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lon := c.Lat, c.Lon
	return &lat, &lon
}

func placeholders(n, from int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}
