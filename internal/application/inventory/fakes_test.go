package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type pairKey struct{ product, location string }

// memStore simula la BD. txMu serializa transacciones (equivale al bloqueo de filas);
// mu protege los mapas en cada operación individual.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products  map[string]*entity.Product
	locations map[string]*entity.Location
	suppliers map[string]*entity.Supplier
	users     map[string]*entity.User

	stock     map[pairKey]entity.Stock
	movements []entity.StockMovement
	purchases map[string]entity.Purchase
	sales     map[string]entity.Sale
	transfers map[string]entity.Transfer
	sessions  map[string]entity.InventorySession
	lines     map[string]entity.InventoryLine
	lineOrder []string

	// failMovement hace fallar la creación de movimientos de ese tipo.
	failMovement entity.MovementType
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		suppliers: map[string]*entity.Supplier{},
		users:     map[string]*entity.User{},
		stock:     map[pairKey]entity.Stock{},
		purchases: map[string]entity.Purchase{},
		sales:     map[string]entity.Sale{},
		transfers: map[string]entity.Transfer{},
		sessions:  map[string]entity.InventorySession{},
		lines:     map[string]entity.InventoryLine{},
	}
}

type snapshot struct {
	stock     map[pairKey]entity.Stock
	movements int
	purchases map[string]entity.Purchase
	sales     map[string]entity.Sale
	transfers map[string]entity.Transfer
	sessions  map[string]entity.InventorySession
	lines     map[string]entity.InventoryLine
	lineOrder int
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		stock:     copyMap(s.stock),
		movements: len(s.movements),
		purchases: copyMap(s.purchases),
		sales:     copyMap(s.sales),
		transfers: copyMap(s.transfers),
		sessions:  copyMap(s.sessions),
		lines:     copyMap(s.lines),
		lineOrder: len(s.lineOrder),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = snap.stock
	s.movements = s.movements[:snap.movements]
	s.purchases = snap.purchases
	s.sales = snap.sales
	s.transfers = snap.transfers
	s.sessions = snap.sessions
	s.lines = snap.lines
	s.lineOrder = s.lineOrder[:snap.lineOrder]
}

func (s *memStore) addProduct(name string) string {
	id := uuid.New().String()
	s.products[id] = &entity.Product{ID: id, Name: name, Unit: "und"}
	return id
}

func (s *memStore) addLocation(name string) string {
	id := uuid.New().String()
	s.locations[id] = &entity.Location{ID: id, Name: name}
	return id
}

func (s *memStore) addSupplier(name string) string {
	id := uuid.New().String()
	s.suppliers[id] = &entity.Supplier{ID: id, Name: name}
	return id
}

func (s *memStore) addUser(username string) string {
	id := uuid.New().String()
	s.users[id] = &entity.User{ID: id, Username: username, Role: entity.RoleManager}
	return id
}

func (s *memStore) quantity(productID, locationID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[pairKey{productID, locationID}].Quantity
}

func (s *memStore) movementsFor(productID, locationID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

type memTx struct {
	s     *memStore
	repos inventory.Repos
}

func (t *memTx) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	snap := t.s.snapshot()
	if err := fn(t.repos); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

// Los repos de catálogo embeben la interfaz: solo se implementa lo que usan los casos de uso.
type memProducts struct {
	repository.ProductRepository
	s *memStore
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type memLocations struct {
	repository.LocationRepository
	s *memStore
}

func (r memLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type memSuppliers struct {
	repository.SupplierRepository
	s *memStore
}

func (r memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

type memUsers struct {
	repository.UserRepository
	s *memStore
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memStock struct {
	repository.StockRepository
	s *memStore
}

func (r memStock) Get(_ context.Context, productID, locationID string) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stock[pairKey{productID, locationID}]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r memStock) GetOrCreateForUpdate(_ context.Context, productID, locationID string) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey{productID, locationID}
	st, ok := r.s.stock[k]
	if !ok {
		st = entity.Stock{ID: uuid.New().String(), ProductID: productID, LocationID: locationID, LastUpdated: time.Now().UTC()}
		r.s.stock[k] = st
	}
	return &st, nil
}

func (r memStock) UpdateQuantity(_ context.Context, stock *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey{stock.ProductID, stock.LocationID}
	if _, ok := r.s.stock[k]; !ok {
		return errors.New("update stock: fila inexistente")
	}
	r.s.stock[k] = *stock
	return nil
}

func (r memStock) TotalForProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for k, st := range r.s.stock {
		if k.product == productID {
			total += st.Quantity
		}
	}
	return total, nil
}

func (r memStock) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Stock
	for k, st := range r.s.stock {
		if k.product == productID {
			st := st
			out = append(out, &st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

type memMovements struct {
	s *memStore
}

var _ repository.StockMovementRepository = memMovements{}

func (r memMovements) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMovement != "" && m.Type == r.s.failMovement {
		return errors.New("insert movement: fallo simulado")
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memMovements) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if (f.ProductID == "" || m.ProductID == f.ProductID) &&
			(f.LocationID == "" || m.LocationID == f.LocationID) &&
			(f.Type == "" || m.Type == f.Type) &&
			(f.ReferenceID == "" || m.ReferenceID == f.ReferenceID) {
			m := m
			out = append(out, &m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memMovements) SumForPair(_ context.Context, productID, locationID string) (int64, error) {
	var sum int64
	for _, m := range r.s.movementsFor(productID, locationID) {
		sum += m.QuantityChange
	}
	return sum, nil
}

type memPurchases struct {
	repository.PurchaseRepository
	s *memStore
}

func (r memPurchases) Create(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.purchases[p.ID] = *p
	return nil
}

func (r memPurchases) List(_ context.Context, f repository.TransactionFilter, limit, offset int) ([]*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Purchase
	for _, p := range r.s.purchases {
		if f.ProductID != "" && p.ProductID != f.ProductID ||
			f.SupplierID != "" && p.SupplierID != f.SupplierID ||
			f.BatchNumber != "" && p.BatchNumber != f.BatchNumber {
			continue
		}
		if f.ExpiringBefore != nil && (p.ExpiryDate == nil || !p.ExpiryDate.Before(*f.ExpiringBefore)) {
			continue
		}
		if f.ExpiringFrom != nil && (p.ExpiryDate == nil || p.ExpiryDate.Before(*f.ExpiringFrom)) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	if f.ByExpiry() {
		sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memSales struct {
	repository.SaleRepository
	s *memStore
}

func (r memSales) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r memSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

type memTransfers struct {
	repository.TransferRepository
	s *memStore
}

func (r memTransfers) Create(_ context.Context, t *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transfers[t.ID] = *t
	return nil
}

type memSessions struct {
	s *memStore
}

var _ repository.InventorySessionRepository = memSessions{}

func (r memSessions) Create(_ context.Context, session *entity.InventorySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.sessions {
		if other.LocationID == session.LocationID && other.IsOpen() {
			return domain.ErrDuplicate
		}
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r memSessions) GetByID(_ context.Context, id string) (*entity.InventorySession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r memSessions) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.GetByID(ctx, id)
}

func (r memSessions) HasOpenForLocation(_ context.Context, locationID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sessions {
		if s.LocationID == locationID && s.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r memSessions) Close(_ context.Context, id string, endTime time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = entity.SessionClosed
	s.EndTime = &endTime
	r.s.sessions[id] = s
	return nil
}

func (r memSessions) List(_ context.Context, locationID string, status entity.SessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventorySession
	for _, s := range r.s.sessions {
		if (locationID == "" || s.LocationID == locationID) && (status == "" || s.Status == status) {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memSessions) ExistsForLocation(_ context.Context, locationID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sessions {
		if s.LocationID == locationID {
			return true, nil
		}
	}
	return false, nil
}

type memLines struct {
	s *memStore
}

var _ repository.InventoryLineRepository = memLines{}

func (r memLines) Create(_ context.Context, line *entity.InventoryLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lines {
		if l.SessionID == line.SessionID && l.ProductID == line.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.lines[line.ID] = *line
	r.s.lineOrder = append(r.s.lineOrder, line.ID)
	return nil
}

func (r memLines) GetByID(_ context.Context, id string) (*entity.InventoryLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r memLines) ExistsForProduct(_ context.Context, sessionID, productID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lines {
		if l.SessionID == sessionID && l.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r memLines) ListBySession(_ context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryLine
	for _, id := range r.s.lineOrder {
		if l, ok := r.s.lines[id]; ok && l.SessionID == sessionID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r memLines) UpdateCount(_ context.Context, line *entity.InventoryLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.lines[line.ID] = *line
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Publicador y PDF
// ──────────────────────────────────────────────────────────────────────────────

type recordedEvent struct {
	Type string
	Data interface{}
}

type memPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *memPublisher) Publish(_ context.Context, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{Type: eventType, Data: data})
	return nil
}

func (p *memPublisher) ofType(t string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakePDF struct {
	got inventory.SessionReport
}

func (f *fakePDF) GenerateSessionPDF(_ context.Context, report inventory.SessionReport) ([]byte, error) {
	f.got = report
	return []byte("%PDF-1.4 fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	store *memStore
	pub   *memPublisher
	deps  inventory.Deps
}

func newHarness() *harness {
	s := newMemStore()
	pub := &memPublisher{}
	repos := inventory.Repos{
		Stock:     memStock{s: s},
		Movements: memMovements{s: s},
		Purchases: memPurchases{s: s},
		Sales:     memSales{s: s},
		Transfers: memTransfers{s: s},
		Sessions:  memSessions{s: s},
		Lines:     memLines{s: s},
	}
	return &harness{
		store: s,
		pub:   pub,
		deps: inventory.Deps{
			Tx:        &memTx{s: s, repos: repos},
			Ledger:    inventory.NewLedger(domaininv.DefaultNegativePolicy()),
			Products:  memProducts{s: s},
			Locations: memLocations{s: s},
			Suppliers: memSuppliers{s: s},
			Users:     memUsers{s: s},
			Stock:     repos.Stock,
			Movements: repos.Movements,
			Purchases: repos.Purchases,
			Sales:     repos.Sales,
			Transfers: repos.Transfers,
			Sessions:  repos.Sessions,
			Lines:     repos.Lines,
			Publisher: pub,
			Log:       logger.Nop(),
		},
	}
}
