package repository

import (
	"context"
	"fmt"
	"sync"
)

// Column names a table column.
type Column struct {
	Table string
	Name  string
}

func (c Column) String() string { return c.Table + "." + c.Name }

// Columns that older deployments may not have.
var (
	ColDeliveryPhotoUploadedAt = Column{Table: "deliveries", Name: "photo_uploaded_at"}
	ColDeliveryNotes           = Column{Table: "deliveries", Name: "notes"}
	ColShopLatitude            = Column{Table: "shops", Name: "latitude"}
	ColShopLongitude           = Column{Table: "shops", Name: "longitude"}
	ColUserLatitude            = Column{Table: "users", Name: "latitude"}
	ColUserLongitude           = Column{Table: "users", Name: "longitude"}
)

// OptionalColumns lists every column the repositories can live without.
var OptionalColumns = []Column{
	ColDeliveryPhotoUploadedAt,
	ColDeliveryNotes,
	ColShopLatitude,
	ColShopLongitude,
	ColUserLatitude,
	ColUserLongitude,
}

// Capabilities tracks which optional columns exist in the live schema. It is
// filled once at startup and narrowed when a statement hits a missing column.
// A nil *Capabilities supports everything.
type Capabilities struct {
	mu        sync.RWMutex
	supported map[Column]bool
}

// NewCapabilities marks the given optional columns supported and the rest not.
func NewCapabilities(supported ...Column) *Capabilities {
	c := &Capabilities{supported: make(map[Column]bool, len(OptionalColumns))}
	for _, col := range OptionalColumns {
		c.supported[col] = false
	}
	for _, col := range supported {
		c.supported[col] = true
	}
	return c
}

// AllCapabilities supports every optional column.
func AllCapabilities() *Capabilities {
	return NewCapabilities(OptionalColumns...)
}

// ProbeCapabilities reads information_schema for the optional columns.
func ProbeCapabilities(ctx context.Context, q querier) (*Capabilities, error) {
	tables := make([]string, 0, len(OptionalColumns))
	seen := map[string]bool{}
	for _, col := range OptionalColumns {
		if !seen[col.Table] {
			seen[col.Table] = true
			tables = append(tables, col.Table)
		}
	}

	rows, err := q.Query(ctx, `
        SELECT table_name, column_name
        FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = ANY($1)
    `, tables)
	if err != nil {
		return nil, fmt.Errorf("probe schema: %w", err)
	}
	defer rows.Close()

	var present []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Table, &col.Name); err != nil {
			return nil, fmt.Errorf("probe schema: %w", err)
		}
		present = append(present, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("probe schema: %w", err)
	}
	return NewCapabilities(present...), nil
}

// Supports reports whether col may be referenced. Non-optional columns are
// always supported.
func (c *Capabilities) Supports(col Column) bool {
	if c == nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ok, optional := c.supported[col]
	return !optional || ok
}

// Disable marks an optional column of table unsupported. It reports whether
// anything changed, so callers retry a statement at most once per column.
func (c *Capabilities) Disable(table, name string) bool {
	if c == nil {
		return false
	}
	col := Column{Table: table, Name: name}
	c.mu.Lock()
	defer c.mu.Unlock()
	ok, optional := c.supported[col]
	if !optional || !ok {
		return false
	}
	c.supported[col] = false
	return true
}

// Missing lists optional columns currently unsupported.
func (c *Capabilities) Missing() []Column {
	var out []Column
	for _, col := range OptionalColumns {
		if !c.Supports(col) {
			out = append(out, col)
		}
	}
	return out
}

// run executes fn, retrying it after each undefined_column error that names
// an optional column of table still marked supported.
func (c *Capabilities) run(ctx context.Context, q querier, table string, fn func(querier) error) error {
	for {
		err := guarded(ctx, q, fn)
		col, ok := UndefinedColumn(err)
		if !ok || !c.Disable(table, col) {
			return err
		}
	}
}

func (c *Capabilities) expr(col Column, alias, fallback string) string {
	name := col.Name
	if alias != "" {
		name = alias + "." + col.Name
	}
	if c.Supports(col) {
		return name
	}
	return fallback
}
