package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bingo-sales-platform/internal/models"
)

// MemoryStore keeps events, sellers and orders in process memory.
// It backs the service tests and the server when no database is reachable.
type MemoryStore struct {
	Events  *MemoryEventRepository
	Sellers *MemorySellerRepository
	Orders  *MemoryOrderRepository
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	gate := &snapshotGate{}
	return &MemoryStore{
		Events:  &MemoryEventRepository{events: make(map[int64]*models.Event), gate: gate},
		Sellers: &MemorySellerRepository{sellers: make(map[int64]*models.Seller), locks: newKeyedMutex(), gate: gate},
		Orders: &MemoryOrderRepository{
			orders:     make(map[int64]*models.Order),
			eventLocks: newKeyedMutex(),
			orderLocks: newKeyedMutex(),
			gate:       gate,
		},
	}
}

type snapshotKey struct{}

// snapshotGate is shared by the repositories of one store. Writers hold it
// shared; ReadSnapshot holds it exclusively so a report sees no write at all.
type snapshotGate struct {
	mu sync.RWMutex
}

// write blocks while a snapshot is being read. Inside a snapshot it is a no-op.
func (g *snapshotGate) write(ctx context.Context) func() {
	if ctx.Value(snapshotKey{}) != nil {
		return func() {}
	}
	g.mu.RLock()
	return g.mu.RUnlock
}

// keyedMutex hands out one mutex per key
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*sync.Mutex)}
}

func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// MemoryEventRepository is the in-memory event store
type MemoryEventRepository struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]*models.Event
	gate   *snapshotGate
}

func (r *MemoryEventRepository) Create(ctx context.Context, event *models.Event) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	event.ID = r.nextID
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *MemoryEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", models.ErrEventNotFound, id)
	}
	out := *event
	return &out, nil
}

func (r *MemoryEventRepository) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*models.Event, 0, len(r.events))
	for _, event := range r.events {
		if activeOnly && !event.Active {
			continue
		}
		out := *event
		events = append(events, &out)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (r *MemoryEventRepository) Update(ctx context.Context, event *models.Event) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; !ok {
		return fmt.Errorf("%w: id %d", models.ErrEventNotFound, event.ID)
	}
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

// MemorySellerRepository is the in-memory seller store
type MemorySellerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	sellers map[int64]*models.Seller
	locks   *keyedMutex
	gate    *snapshotGate
}

func (r *MemorySellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	if seller.Email != "" {
		for _, existing := range r.sellers {
			if existing.Email == seller.Email {
				return fmt.Errorf("%w: seller email %s", models.ErrDuplicateEntry, seller.Email)
			}
		}
	}

	r.nextID++
	seller.ID = r.nextID
	stored := *seller
	r.sellers[seller.ID] = &stored
	return nil
}

func (r *MemorySellerRepository) GetByID(ctx context.Context, id int64) (*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.sellers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", models.ErrSellerNotFound, id)
	}
	out := *seller
	return &out, nil
}

func (r *MemorySellerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sellers := make([]*models.Seller, 0, len(r.sellers))
	for _, seller := range r.sellers {
		if activeOnly && !seller.Active {
			continue
		}
		out := *seller
		sellers = append(sellers, &out)
	}
	sort.Slice(sellers, func(i, j int) bool { return sellers[i].ID < sellers[j].ID })
	return sellers, nil
}

func (r *MemorySellerRepository) Update(ctx context.Context, seller *models.Seller) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sellers[seller.ID]; !ok {
		return fmt.Errorf("%w: id %d", models.ErrSellerNotFound, seller.ID)
	}
	stored := *seller
	r.sellers[seller.ID] = &stored
	return nil
}

func (r *MemorySellerRepository) WithSellerLock(ctx context.Context, sellerID int64, fn func(ctx context.Context) error) error {
	if _, err := r.GetByID(ctx, sellerID); err != nil {
		return err
	}
	unlock := r.locks.lock(sellerID)
	defer unlock()
	return fn(ctx)
}

// MemoryOrderRepository is the in-memory order store.
// Orders are copied on every read and write so callers never share state.
type MemoryOrderRepository struct {
	mu         sync.RWMutex
	nextID     int64
	orders     map[int64]*models.Order
	eventLocks *keyedMutex
	orderLocks *keyedMutex
	gate       *snapshotGate
}

func (r *MemoryOrderRepository) WithEventLock(ctx context.Context, eventID int64, fn func(ctx context.Context) error) error {
	unlock := r.eventLocks.lock(eventID)
	defer unlock()
	return fn(ctx)
}

func (r *MemoryOrderRepository) WithOrderLock(ctx context.Context, orderID int64, fn func(ctx context.Context) error) error {
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return err
	}
	unlock := r.orderLocks.lock(orderID)
	defer unlock()
	return fn(ctx)
}

// ReadSnapshot runs fn while every write to the store waits
func (r *MemoryOrderRepository) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(snapshotKey{}) != nil {
		return fn(ctx)
	}
	r.gate.mu.Lock()
	defer r.gate.mu.Unlock()
	return fn(context.WithValue(ctx, snapshotKey{}, true))
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *MemoryOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", models.ErrOrderNotFound, id)
	}
	return order.Clone(), nil
}

func (r *MemoryOrderRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Order, error) {
	return r.List(ctx, models.OrderFilter{EventID: eventID})
}

func (r *MemoryOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*models.Order, 0)
	for _, order := range r.orders {
		if filter.Matches(order) {
			orders = append(orders, order.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *MemoryOrderRepository) Save(ctx context.Context, order *models.Order) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("%w: id %d", models.ErrOrderNotFound, order.ID)
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *MemoryOrderRepository) Delete(ctx context.Context, id int64) error {
	defer r.gate.write(ctx)()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("%w: id %d", models.ErrOrderNotFound, id)
	}
	delete(r.orders, id)
	return nil
}

func (r *MemoryOrderRepository) CountOpenBySeller(ctx context.Context, sellerID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, order := range r.orders {
		if order.SellerID == sellerID && order.Status == models.OrderOpen {
			count++
		}
	}
	return count, nil
}
