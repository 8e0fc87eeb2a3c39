package allocation_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture transaccional en memoria.
//
// Emula lo que el motor exige del adaptador PostgreSQL real:
//   - locks exclusivos por fila (variante, bodega) sostenidos hasta Commit/Rollback,
//     con espera acotada (equivalente a lock_timeout -> ErrLockTimeout)
//   - escrituras staged: invisibles para otros hasta Commit, descartadas en Rollback
//   - lecturas advisory del selector contra el estado ya confirmado
//
// Con esto las propiedades de concurrencia (no-oversell, todo-o-nada, ausencia de
// deadlock) se ejercitan de verdad con goroutines, sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

const rowKeySep = "|"

func rowKey(variantID, warehouseID string) string {
	return variantID + rowKeySep + warehouseID
}

type memStore struct {
	mu          sync.Mutex
	records     map[string]*entity.StockRecord
	movements   []*entity.MovementEntry
	warehouses  map[string]*entity.Warehouse
	rowLocks    map[string]*sync.Mutex
	lockTimeout time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		records:     make(map[string]*entity.StockRecord),
		warehouses:  make(map[string]*entity.Warehouse),
		rowLocks:    make(map[string]*sync.Mutex),
		lockTimeout: 2 * time.Second,
	}
}

func (s *memStore) addWarehouse(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: id, Active: active}
}

func (s *memStore) setActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[id].Active = active
}

func (s *memStore) seedStock(variantID, warehouseID string, quantity, threshold int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rowKey(variantID, warehouseID)] = &entity.StockRecord{
		VariantID:    variantID,
		WarehouseID:  warehouseID,
		Quantity:     quantity,
		MinThreshold: threshold,
		UpdatedAt:    time.Now(),
	}
}

func (s *memStore) quantity(variantID, warehouseID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[rowKey(variantID, warehouseID)]; ok {
		return r.Quantity
	}
	return 0
}

func (s *memStore) movementsByReason(reason string) []*entity.MovementEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.MovementEntry
	for _, m := range s.movements {
		if m.Reason == reason {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.rowLocks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.rowLocks[key] = l
	return l
}

// ───── transacción ─────

type memTx struct {
	store  *memStore
	held   []*sync.Mutex
	staged map[string]*entity.StockRecord
	newMov []*entity.MovementEntry
}

func (t *memTx) rollback() {
	t.release()
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	for key, rec := range t.staged {
		cp := *rec
		t.store.records[key] = &cp
	}
	for _, m := range t.newMov {
		cp := *m
		t.store.movements = append(t.store.movements, &cp)
	}
	t.store.mu.Unlock()
	t.release()
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

// acquireRow emula FOR UPDATE con lock_timeout: espera acotada por fila.
func (t *memTx) acquireRow(key string) error {
	lock := t.store.lockFor(key)
	deadline := time.Now().Add(t.store.lockTimeout)
	for {
		if lock.TryLock() {
			t.held = append(t.held, lock)
			return nil
		}
		if time.Now().After(deadline) {
			return domain.ErrLockTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

// ───── repos atados a la transacción ─────

type memTxStockRepo struct{ tx *memTx }

func (r *memTxStockRepo) Get(_ context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	key := rowKey(variantID, warehouseID)
	if rec, ok := r.tx.staged[key]; ok {
		cp := *rec
		return &cp, nil
	}
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	if rec, ok := r.tx.store.records[key]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *memTxStockRepo) GetForUpdate(_ context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	key := rowKey(variantID, warehouseID)
	if err := r.tx.acquireRow(key); err != nil {
		return nil, err
	}
	if rec, ok := r.tx.staged[key]; ok {
		cp := *rec
		return &cp, nil
	}
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	rec, ok := r.tx.store.records[key]
	if !ok {
		return nil, domain.ErrNoStockRecord
	}
	cp := *rec
	return &cp, nil
}

func (r *memTxStockRepo) Save(_ context.Context, record *entity.StockRecord) error {
	cp := *record
	r.tx.staged[rowKey(record.VariantID, record.WarehouseID)] = &cp
	return nil
}

func (r *memTxStockRepo) Upsert(ctx context.Context, record *entity.StockRecord) error {
	return r.Save(ctx, record)
}

func (r *memTxStockRepo) ListAvailableByVariant(ctx context.Context, variantID string) ([]*entity.StockRecord, error) {
	return (&memStockRepo{store: r.tx.store}).ListAvailableByVariant(ctx, variantID)
}

func (r *memTxStockRepo) ListBelowThreshold(ctx context.Context) ([]*entity.StockRecord, error) {
	return (&memStockRepo{store: r.tx.store}).ListBelowThreshold(ctx)
}

type memTxMovRepo struct{ tx *memTx }

func (r *memTxMovRepo) Append(_ context.Context, entry *entity.MovementEntry) error {
	cp := *entry
	r.tx.newMov = append(r.tx.newMov, &cp)
	return nil
}

func (r *memTxMovRepo) FindByReference(_ context.Context, reference string) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	r.tx.store.mu.Lock()
	for _, m := range r.tx.store.movements {
		if m.Reference == reference {
			cp := *m
			out = append(out, &cp)
		}
	}
	r.tx.store.mu.Unlock()
	for _, m := range r.tx.newMov {
		if m.Reference == reference {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTxMovRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	for _, m := range r.tx.store.movements {
		if m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTxMovRepo) ListByVariant(_ context.Context, variantID string, _, _ int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	for _, m := range r.tx.store.movements {
		if m.VariantID == variantID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ───── repo advisory (pool) y TxRunner ─────

type memStockRepo struct{ store *memStore }

func (r *memStockRepo) Get(_ context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.records[rowKey(variantID, warehouseID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *memStockRepo) GetForUpdate(context.Context, string, string) (*entity.StockRecord, error) {
	panic("GetForUpdate fuera de transacción")
}

func (r *memStockRepo) Save(context.Context, *entity.StockRecord) error {
	panic("Save fuera de transacción")
}

func (r *memStockRepo) Upsert(context.Context, *entity.StockRecord) error {
	panic("Upsert fuera de transacción")
}

func (r *memStockRepo) ListAvailableByVariant(_ context.Context, variantID string) ([]*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		if rec.VariantID != variantID || rec.Quantity <= 0 {
			continue
		}
		wh, ok := r.store.warehouses[rec.WarehouseID]
		if !ok || !wh.Active {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memStockRepo) ListBelowThreshold(context.Context) ([]*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		wh, ok := r.store.warehouses[rec.WarehouseID]
		if !ok || !wh.Active {
			continue
		}
		if rec.Quantity <= rec.MinThreshold {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memWarehouseRepo struct{ store *memStore }

func (r *memWarehouseRepo) Create(_ context.Context, warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *warehouse
	r.store.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if wh, ok := r.store.warehouses[id]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, nil
}

func (r *memWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Warehouse
	for _, wh := range r.store.warehouses {
		cp := *wh
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memWarehouseRepo) ListActive(_ context.Context) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Warehouse
	for _, wh := range r.store.warehouses {
		if wh.Active {
			cp := *wh
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) SetActive(_ context.Context, id string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wh, ok := r.store.warehouses[id]
	if !ok {
		return domain.ErrNotFound
	}
	wh.Active = active
	return nil
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementLogRepository,
) error) error {
	tx := &memTx{store: r.store, staged: make(map[string]*entity.StockRecord)}
	err := fn(&memTxStockRepo{tx: tx}, &memTxMovRepo{tx: tx})
	if err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}

// ───── notificador de prueba ─────

type captureNotifier struct {
	mu      sync.Mutex
	signals []allocation.LowStockSignal
	fail    bool
}

func (n *captureNotifier) Notify(_ context.Context, sig allocation.LowStockSignal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return context.DeadlineExceeded
	}
	n.signals = append(n.signals, sig)
	return nil
}

func (n *captureNotifier) captured() []allocation.LowStockSignal {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]allocation.LowStockSignal, len(n.signals))
	copy(out, n.signals)
	return out
}
