package delivery_test

import (
	"context"
	"sort"
	"sync"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/ports/deliverytx"
)

// memState is the committed content of memStore.
type memState struct {
	deliveries map[string]domain.Delivery
	agents     map[string]domain.Agent
	orders     map[string]domain.OrderStatus
}

func (s memState) clone() memState {
	out := memState{
		deliveries: make(map[string]domain.Delivery, len(s.deliveries)),
		agents:     make(map[string]domain.Agent, len(s.agents)),
		orders:     make(map[string]domain.OrderStatus, len(s.orders)),
	}
	for k, v := range s.deliveries {
		out.deliveries[k] = v
	}
	for k, v := range s.agents {
		out.agents[k] = v
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	return out
}

// memStore is an in-memory stand-in for the delivery and agent repositories.
// WithTx works on a copy that is only kept when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state memState

	// onInsert, when set, runs before a transactional insert.
	onInsert func(s *memStore, d *domain.Delivery) error
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		deliveries: map[string]domain.Delivery{},
		agents:     map[string]domain.Agent{},
		orders:     map[string]domain.OrderStatus{},
	}}
}

func (m *memStore) putAgent(a domain.Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.agents[a.ID] = a
}

func (m *memStore) agent(id string) domain.Agent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.agents[id]
}

func (m *memStore) orderStatus(id string) domain.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.orders[id]
}

func (m *memStore) setOrderStatus(id string, st domain.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.orders[id] = st
}

func (m *memStore) putDelivery(d domain.Delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.deliveries[d.ID] = d
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.deliveries)
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error {
	m.mu.Lock()
	work := m.state.clone()
	m.mu.Unlock()

	if err := fn(&memTx{store: m, st: work}); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = work
	m.mu.Unlock()
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memStore) GetByOrderID(_ context.Context, orderID string) (*domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return findByOrder(m.state, orderID), nil
}

func (m *memStore) List(_ context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Delivery
	for _, d := range m.state.deliveries {
		if f.Unassigned && (!d.Open() || m.state.orders[d.OrderID] == domain.OrderCancelled) {
			continue
		}
		if f.AgentID != nil && (d.AgentID == nil || *d.AgentID != *f.AgentID) {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.state.agents {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListEligible(context.Context) ([]domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Agent
	for _, a := range m.state.agents {
		if a.Eligible() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type agentGetter struct{ m *memStore }

func (g agentGetter) Get(_ context.Context, id string) (*domain.Agent, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	a, ok := g.m.state.agents[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (g agentGetter) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	return g.m.GetByUserID(ctx, userID)
}

func (g agentGetter) ListEligible(ctx context.Context) ([]domain.Agent, error) {
	return g.m.ListEligible(ctx)
}

func findByOrder(st memState, orderID string) *domain.Delivery {
	for _, d := range st.deliveries {
		if d.OrderID == orderID {
			return &d
		}
	}
	return nil
}

type memTx struct {
	store *memStore
	st    memState
}

func (t *memTx) GetByOrderID(_ context.Context, orderID string) (*domain.Delivery, error) {
	return findByOrder(t.st, orderID), nil
}

func (t *memTx) GetForUpdate(_ context.Context, id string) (*domain.Delivery, error) {
	d, ok := t.st.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (t *memTx) Insert(_ context.Context, d *domain.Delivery) error {
	if t.store.onInsert != nil {
		if err := t.store.onInsert(t.store, d); err != nil {
			return err
		}
	}
	if findByOrder(t.st, d.OrderID) != nil {
		return apperr.ErrConflict
	}
	t.st.deliveries[d.ID] = *d
	return nil
}

func (t *memTx) Update(_ context.Context, d *domain.Delivery) error {
	cur, ok := t.st.deliveries[d.ID]
	if !ok || cur.Version != d.Version {
		return apperr.ErrConflict
	}
	d.Version++
	t.st.deliveries[d.ID] = *d
	return nil
}

func (t *memTx) GetAgentForUpdate(_ context.Context, id string) (*domain.Agent, error) {
	a, ok := t.st.agents[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (t *memTx) SetAgentAvailability(_ context.Context, id string, available bool) error {
	a, ok := t.st.agents[id]
	if !ok {
		return &apperr.NotFoundError{Resource: "agent", ID: id}
	}
	a.Available = available
	t.st.agents[id] = a
	return nil
}

func (t *memTx) CompleteAgentDelivery(_ context.Context, id string) error {
	a, ok := t.st.agents[id]
	if !ok {
		return &apperr.NotFoundError{Resource: "agent", ID: id}
	}
	a.Available = true
	a.TotalDeliveries++
	t.st.agents[id] = a
	return nil
}

func (t *memTx) LockOrderStatus(_ context.Context, orderID string) (domain.OrderStatus, error) {
	return t.st.orders[orderID], nil
}

func (t *memTx) SetOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	if t.st.orders[orderID].Terminal() {
		return apperr.ErrInvalidTransition
	}
	t.st.orders[orderID] = status
	return nil
}

type fakeResolver struct {
	orders map[string]*domain.OrderContext
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, orderID string) (*domain.OrderContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	oc, ok := f.orders[orderID]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "order", ID: orderID}
	}
	cp := *oc
	return &cp, nil
}

type fakeGeocoder struct {
	mu        sync.Mutex
	fn        func(address string) (domain.Location, error)
	reverseFn func(c domain.Coordinates) (string, error)
	calls     []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, address string) (domain.Location, error) {
	f.mu.Lock()
	f.calls = append(f.calls, address)
	f.mu.Unlock()
	if f.fn == nil {
		return domain.Unresolved(), nil
	}
	return f.fn(address)
}

func (f *fakeGeocoder) Reverse(_ context.Context, c domain.Coordinates) (string, error) {
	if f.reverseFn == nil {
		return "", nil
	}
	return f.reverseFn(c)
}

type savedLocations struct {
	mu        sync.Mutex
	shops     map[string]domain.Coordinates
	customers map[string]domain.Coordinates
}

func newSavedLocations() *savedLocations {
	return &savedLocations{shops: map[string]domain.Coordinates{}, customers: map[string]domain.Coordinates{}}
}

func (s *savedLocations) SaveShopLocation(_ context.Context, id string, c domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops[id] = c
	return nil
}

func (s *savedLocations) SaveCustomerLocation(_ context.Context, id string, c domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[id] = c
	return nil
}

type eventLog struct {
	mu     sync.Mutex
	events []domain.DeliveryEvent
	err    error
}

func (e *eventLog) Publish(_ context.Context, evt domain.DeliveryEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
	return e.err
}

func (e *eventLog) types() []domain.DeliveryEventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.DeliveryEventType, len(e.events))
	for i, evt := range e.events {
		out[i] = evt.Type
	}
	return out
}

type createdCounter struct {
	assigned, open int
}

func (c *createdCounter) DeliveryCreated(assigned bool) {
	if assigned {
		c.assigned++
		return
	}
	c.open++
}
