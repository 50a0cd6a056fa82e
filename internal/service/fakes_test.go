package service

import (
	"context"
	"sort"
	"sync"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/repository"
)

// fakeStore is an in-memory repository.Store. WithinTx serializes on a
// mutex and runs fn against a deep copy of the data, swapping the copy in
// only on success, so rollback and transaction isolation behave like the
// real store without a database.
type fakeStore struct {
	mu   sync.Mutex
	data *fakeData
}

type fakeData struct {
	items      map[int32]domain.Item
	orders     map[int32]domain.Order
	lines      map[int32]domain.OrderLine
	records    map[int32]domain.DamageLossRecord
	costs      map[int32]domain.ReplacementCost
	borrowers  map[string]domain.Borrower
	nextOrder  int32
	nextLine   int32
	nextRecord int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: &fakeData{
		items:      map[int32]domain.Item{},
		orders:     map[int32]domain.Order{},
		lines:      map[int32]domain.OrderLine{},
		records:    map[int32]domain.DamageLossRecord{},
		costs:      map[int32]domain.ReplacementCost{},
		borrowers:  map[string]domain.Borrower{},
		nextOrder:  1,
		nextLine:   1,
		nextRecord: 1,
	}}
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		items:      make(map[int32]domain.Item, len(d.items)),
		orders:     make(map[int32]domain.Order, len(d.orders)),
		lines:      make(map[int32]domain.OrderLine, len(d.lines)),
		records:    make(map[int32]domain.DamageLossRecord, len(d.records)),
		costs:      make(map[int32]domain.ReplacementCost, len(d.costs)),
		borrowers:  make(map[string]domain.Borrower, len(d.borrowers)),
		nextOrder:  d.nextOrder,
		nextLine:   d.nextLine,
		nextRecord: d.nextRecord,
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.orders {
		if v.ExpectedReturnDate != nil {
			due := *v.ExpectedReturnDate
			v.ExpectedReturnDate = &due
		}
		c.orders[k] = v
	}
	for k, v := range d.lines {
		c.lines[k] = v
	}
	for k, v := range d.records {
		c.records[k] = v
	}
	for k, v := range d.costs {
		c.costs[k] = v
	}
	for k, v := range d.borrowers {
		c.borrowers[k] = v
	}
	return c
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.data.clone()
	if err := fn(&fakeTxStore{data: clone}); err != nil {
		return err
	}
	s.data = clone
	return nil
}

func (s *fakeStore) Items() repository.ItemRepository       { return &fakeItems{s: s} }
func (s *fakeStore) Orders() repository.OrderRepository     { return &fakeOrders{s: s} }
func (s *fakeStore) OrderLines() repository.OrderLineRepository {
	return &fakeLines{s: s}
}
func (s *fakeStore) DamageLoss() repository.DamageLossRepository {
	return &fakeRecords{s: s}
}
func (s *fakeStore) ReplacementCosts() repository.ReplacementCostRepository {
	return &fakeCosts{s: s}
}
func (s *fakeStore) Borrowers() repository.BorrowerRepository {
	return &fakeBorrowers{s: s}
}

// with runs fn against the live data under the root mutex.
func (s *fakeStore) with(fn func(*fakeData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// fakeTxStore is the transaction-scoped view handed to WithinTx callbacks.
// The root mutex is already held, so it touches its clone directly; nested
// WithinTx calls join the same clone.
type fakeTxStore struct {
	data *fakeData
}

func (s *fakeTxStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *fakeTxStore) Items() repository.ItemRepository       { return &fakeItems{tx: s} }
func (s *fakeTxStore) Orders() repository.OrderRepository     { return &fakeOrders{tx: s} }
func (s *fakeTxStore) OrderLines() repository.OrderLineRepository {
	return &fakeLines{tx: s}
}
func (s *fakeTxStore) DamageLoss() repository.DamageLossRepository {
	return &fakeRecords{tx: s}
}
func (s *fakeTxStore) ReplacementCosts() repository.ReplacementCostRepository {
	return &fakeCosts{tx: s}
}
func (s *fakeTxStore) Borrowers() repository.BorrowerRepository {
	return &fakeBorrowers{tx: s}
}

func (s *fakeTxStore) with(fn func(*fakeData) error) error {
	return fn(s.data)
}

type dataView interface {
	with(fn func(*fakeData) error) error
}

func view(s *fakeStore, tx *fakeTxStore) dataView {
	if tx != nil {
		return tx
	}
	return s
}

type fakeItems struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeItems) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	var out *domain.Item
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		it, ok := d.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *fakeItems) GetForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItems) UpdateAvailable(ctx context.Context, id, available int32) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		it, ok := d.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		it.AvailableQuantity = available
		d.items[id] = it
		return nil
	})
}

func (r *fakeItems) List(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, it := range d.items {
			out = append(out, it)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

type fakeOrders struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeOrders) Create(ctx context.Context, o *domain.Order) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		o.ID = d.nextOrder
		d.nextOrder++
		d.orders[o.ID] = *o
		return nil
	})
}

func (r *fakeOrders) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	var out *domain.Order
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		o, ok := d.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *fakeOrders) GetForUpdate(ctx context.Context, id int32) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrders) FindDraftByUsername(ctx context.Context, username string) (*domain.Order, error) {
	var out *domain.Order
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		var best *domain.Order
		for id := range d.orders {
			o := d.orders[id]
			if o.Username == username && o.Status == domain.OrderStatusDraft {
				if best == nil || o.ID > best.ID {
					c := o
					best = &c
				}
			}
		}
		if best == nil {
			return domain.ErrNotFound
		}
		out = best
		return nil
	})
	return out, err
}

func (r *fakeOrders) Update(ctx context.Context, o *domain.Order) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		if _, ok := d.orders[o.ID]; !ok {
			return domain.ErrNotFound
		}
		d.orders[o.ID] = *o
		return nil
	})
}

func (r *fakeOrders) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	var out []domain.Order
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, o := range d.orders {
			if o.Username == username && o.Status != domain.OrderStatusDraft {
				out = append(out, o)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		return nil
	})
	return out, err
}

type fakeLines struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeLines) Create(ctx context.Context, l *domain.OrderLine) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		l.ID = d.nextLine
		d.nextLine++
		d.lines[l.ID] = *l
		return nil
	})
}

func (r *fakeLines) GetByID(ctx context.Context, id int32) (*domain.OrderLine, error) {
	var out *domain.OrderLine
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		l, ok := d.lines[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *fakeLines) FindByOrderAndItem(ctx context.Context, orderID, itemID int32) (*domain.OrderLine, error) {
	var out *domain.OrderLine
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, l := range d.lines {
			if l.OrderID == orderID && l.ItemID == itemID {
				c := l
				out = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *fakeLines) ListByOrder(ctx context.Context, orderID int32) ([]domain.OrderLine, error) {
	var out []domain.OrderLine
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, l := range d.lines {
			if l.OrderID == orderID {
				out = append(out, l)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *fakeLines) Update(ctx context.Context, l *domain.OrderLine) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		if _, ok := d.lines[l.ID]; !ok {
			return domain.ErrNotFound
		}
		d.lines[l.ID] = *l
		return nil
	})
}

func (r *fakeLines) Delete(ctx context.Context, id int32) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		delete(d.lines, id)
		return nil
	})
}

type fakeRecords struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeRecords) GetByLineID(ctx context.Context, lineID int32) (*domain.DamageLossRecord, error) {
	var out *domain.DamageLossRecord
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, rec := range d.records {
			if rec.LineID == lineID {
				c := rec
				out = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *fakeRecords) Upsert(ctx context.Context, rec *domain.DamageLossRecord) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		for id, existing := range d.records {
			if existing.LineID == rec.LineID {
				rec.ID = id
				d.records[id] = *rec
				return nil
			}
		}
		rec.ID = d.nextRecord
		d.nextRecord++
		d.records[rec.ID] = *rec
		return nil
	})
}

func (r *fakeRecords) DeleteByLineID(ctx context.Context, lineID int32) error {
	return view(r.s, r.tx).with(func(d *fakeData) error {
		for id, rec := range d.records {
			if rec.LineID == lineID {
				delete(d.records, id)
			}
		}
		return nil
	})
}

func (r *fakeRecords) ListByOrder(ctx context.Context, orderID int32) ([]domain.DamageLossRecord, error) {
	var out []domain.DamageLossRecord
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		for _, rec := range d.records {
			l, ok := d.lines[rec.LineID]
			if ok && l.OrderID == orderID {
				out = append(out, rec)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

type fakeCosts struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeCosts) LatestByItemID(ctx context.Context, itemID int32) (*domain.ReplacementCost, error) {
	var out *domain.ReplacementCost
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		var best *domain.ReplacementCost
		for id := range d.costs {
			c := d.costs[id]
			if c.ItemID == itemID {
				if best == nil || c.ID > best.ID {
					cc := c
					best = &cc
				}
			}
		}
		if best == nil {
			return domain.ErrNotFound
		}
		out = best
		return nil
	})
	return out, err
}

type fakeBorrowers struct {
	s  *fakeStore
	tx *fakeTxStore
}

func (r *fakeBorrowers) GetByUsername(ctx context.Context, username string) (*domain.Borrower, error) {
	var out *domain.Borrower
	err := view(r.s, r.tx).with(func(d *fakeData) error {
		b, ok := d.borrowers[username]
		if !ok {
			return domain.ErrNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

// seed helpers

func (s *fakeStore) seedItem(it domain.Item) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.items[it.ID] = it
	return it
}

func (s *fakeStore) seedOrder(o domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.data.nextOrder
		s.data.nextOrder++
	} else if o.ID >= s.data.nextOrder {
		s.data.nextOrder = o.ID + 1
	}
	s.data.orders[o.ID] = o
	return o
}

func (s *fakeStore) seedLine(l domain.OrderLine) domain.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.data.nextLine
		s.data.nextLine++
	} else if l.ID >= s.data.nextLine {
		s.data.nextLine = l.ID + 1
	}
	s.data.lines[l.ID] = l
	return l
}

func (s *fakeStore) seedCost(c domain.ReplacementCost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.costs[c.ID] = c
}

func (s *fakeStore) seedBorrower(b domain.Borrower) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.borrowers[b.Username] = b
}

func (s *fakeStore) itemByID(id int32) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.items[id]
}

func (s *fakeStore) orderByID(id int32) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.orders[id]
}
