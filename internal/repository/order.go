package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"service-delivery/internal/domain"
)

// OrderRepo reads orders together with their shop and customer.
type OrderRepo struct {
	db   *pgxpool.Pool
	caps *Capabilities
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool, caps *Capabilities) *OrderRepo {
	return &OrderRepo{db: db, caps: caps}
}

func (r *OrderRepo) shopCoords(alias string) string {
	if !r.caps.Supports(ColShopLatitude) || !r.caps.Supports(ColShopLongitude) {
		return "NULL::float8, NULL::float8"
	}
	return alias + ".latitude, " + alias + ".longitude"
}

func (r *OrderRepo) userCoords(alias string) string {
	if !r.caps.Supports(ColUserLatitude) || !r.caps.Supports(ColUserLongitude) {
		return "NULL::float8, NULL::float8"
	}
	return alias + ".latitude, " + alias + ".longitude"
}

const orderCols = `o.id, o.status, COALESCE(o.total_amount, 0)::text, COALESCE(o.delivery_address, ''),
            COALESCE(o.delivery_phone, ''), o.customer_id, o.shop_id`

// GetContext loads an order, its shop and its customer in one query. It
// returns nil, nil when the order does not exist. Schema drift errors are
// returned as is; callers fall back to the separate lookups.
func (r *OrderRepo) GetContext(ctx context.Context, orderID string) (*domain.OrderContext, error) {
	q := fmt.Sprintf(`
        SELECT %s,
            s.id, s.name, s.address, s.phone, %s,
            u.id, u.name, u.phone, u.address, %s
        FROM orders o
        LEFT JOIN shops s ON s.id = o.shop_id
        LEFT JOIN users u ON u.id = o.customer_id
        WHERE o.id = $1
    `, orderCols, r.shopCoords("s"), r.userCoords("u"))

	var (
		o                   domain.Order
		total               string
		shopID, shopName    *string
		shopAddr, shopPhone *string
		shopLat, shopLon    *float64
		custID, custName    *string
		custPhone, custAddr *string
		custLat, custLon    *float64
	)
	err := r.db.QueryRow(ctx, q, orderID).Scan(
		&o.ID, &o.Status, &total, &o.DeliveryAddress, &o.DeliveryPhone, &o.CustomerID, &o.ShopID,
		&shopID, &shopName, &shopAddr, &shopPhone, &shopLat, &shopLon,
		&custID, &custName, &custPhone, &custAddr, &custLat, &custLon,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order context %q: %w", orderID, err)
	}
	if err := finishOrder(&o, total); err != nil {
		return nil, err
	}

	oc := &domain.OrderContext{Order: o}
	if shopID != nil {
		oc.Shop = &domain.Shop{
			ID:       *shopID,
			Name:     deref(shopName),
			Address:  deref(shopAddr),
			Phone:    deref(shopPhone),
			Location: coords(shopLat, shopLon),
		}
		oc.Order.ShopLocation = oc.Shop.Location
	}
	if custID != nil {
		oc.Customer = &domain.Customer{
			ID:       *custID,
			Name:     deref(custName),
			Phone:    deref(custPhone),
			Address:  deref(custAddr),
			Location: coords(custLat, custLon),
		}
		oc.Order.CustomerLocation = oc.Customer.Location
	}
	return oc, nil
}

// GetOrder returns the bare order row, or nil, nil when it does not exist.
func (r *OrderRepo) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var (
		o     domain.Order
		total string
	)
	err := r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders o WHERE o.id = $1`, orderID).Scan(
		&o.ID, &o.Status, &total, &o.DeliveryAddress, &o.DeliveryPhone, &o.CustomerID, &o.ShopID,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q: %w", orderID, err)
	}
	if err := finishOrder(&o, total); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetShop returns a shop, or nil, nil when it or the shops table does not exist.
func (r *OrderRepo) GetShop(ctx context.Context, id string) (*domain.Shop, error) {
	var s domain.Shop
	err := r.caps.run(ctx, r.db, "shops", func(q querier) error {
		var lat, lon *float64
		err := q.QueryRow(ctx, `
            SELECT id, COALESCE(name, ''), COALESCE(address, ''), COALESCE(phone, ''), `+r.shopCoords("shops")+`
            FROM shops WHERE id = $1
        `, id).Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &lat, &lon)
		s.Location = coords(lat, lon)
		return err
	})
	if err != nil {
		if IsNotFound(err) || IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop %q: %w", id, err)
	}
	return &s, nil
}

// GetCustomer returns a customer, or nil, nil when it or the users table does
// not exist.
func (r *OrderRepo) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.caps.run(ctx, r.db, "users", func(q querier) error {
		var lat, lon *float64
		err := q.QueryRow(ctx, `
            SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(address, ''), `+r.userCoords("users")+`
            FROM users WHERE id = $1
        `, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &lat, &lon)
		c.Location = coords(lat, lon)
		return err
	})
	if err != nil {
		if IsNotFound(err) || IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer %q: %w", id, err)
	}
	return &c, nil
}

// SaveShopLocation writes geocoded coordinates back onto the shop. It is a
// no-op when the schema has no coordinate columns.
func (r *OrderRepo) SaveShopLocation(ctx context.Context, id string, c domain.Coordinates) error {
	if !r.caps.Supports(ColShopLatitude) || !r.caps.Supports(ColShopLongitude) {
		return nil
	}
	err := r.caps.run(ctx, r.db, "shops", func(q querier) error {
		_, err := q.Exec(ctx, `UPDATE shops SET latitude = $2, longitude = $3 WHERE id = $1`, id, c.Lat, c.Lon)
		return err
	})
	if err != nil && !IsSchemaDrift(err) {
		return fmt.Errorf("save shop %q location: %w", id, err)
	}
	return nil
}

// SaveCustomerLocation writes geocoded coordinates back onto the customer. A
// schema without the users table or its coordinate columns makes it a no-op.
func (r *OrderRepo) SaveCustomerLocation(ctx context.Context, id string, c domain.Coordinates) error {
	if !r.caps.Supports(ColUserLatitude) || !r.caps.Supports(ColUserLongitude) {
		return nil
	}
	err := r.caps.run(ctx, r.db, "users", func(q querier) error {
		_, err := q.Exec(ctx, `UPDATE users SET latitude = $2, longitude = $3 WHERE id = $1`, id, c.Lat, c.Lon)
		return err
	})
	if err != nil && !IsSchemaDrift(err) {
		return fmt.Errorf("save customer %q location: %w", id, err)
	}
	return nil
}

func finishOrder(o *domain.Order, total string) error {
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return fmt.Errorf("order %q total %q: %w", o.ID, total, err)
	}
	o.TotalAmount = amount
	o.Status = domain.ParseOrderStatus(string(o.Status))
	return nil
}

func coords(lat, lon *float64) *domain.Coordinates {
	if lat == nil || lon == nil {
		return nil
	}
	c := domain.Coordinates{Lat: *lat, Lon: *lon}
	if !c.Valid() {
		return nil
	}
	return &c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
