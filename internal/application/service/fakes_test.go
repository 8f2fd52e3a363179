package service

import (
	"context"
	"sync"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// gate lets a test hold a fake backend call open. started is closed when the call
// arrives; the call returns once release is closed.
type gate struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	if g == nil {
		return
	}
	g.once.Do(func() { close(g.started) })
	<-g.release
}

type fakeProducts struct {
	mu      sync.Mutex
	items   map[string]entity.Product
	err     error
	gate    *gate
	lookups int
	created []entity.Product
	updated map[string]entity.Product
	deleted []string
}

func newFakeProducts(products ...entity.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]entity.Product{}, updated: map[string]entity.Product{}}
	for _, p := range products {
		f.items[p.Code] = p
	}
	return f
}

func (f *fakeProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	f.mu.Lock()
	f.lookups++
	g := f.gate
	f.mu.Unlock()
	g.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.items[code]
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	return &p, nil
}

func (f *fakeProducts) List(context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *p)
	f.items[p.Code] = *p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, code string, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updated[code] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, code)
	return nil
}

type fakeSales struct {
	mu        sync.Mutex
	ids       []string
	err       error
	gate      *gate
	creates   int
	lines     []entity.PendingSaleLine
	total     float64
	history   []entity.SalesGroup
	historyOf string
	updates   map[string][]entity.SaleItem
	deleted   []string
}

func newFakeSales(ids ...string) *fakeSales {
	return &fakeSales{ids: ids, updates: map[string][]entity.SaleItem{}}
}

func (f *fakeSales) Create(_ context.Context, lines []entity.PendingSaleLine, total float64) (string, error) {
	f.mu.Lock()
	f.creates++
	g := f.gate
	f.mu.Unlock()
	g.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.lines = lines
	f.total = total
	id := "S0"
	if len(f.ids) > 0 {
		id, f.ids = f.ids[0], f.ids[1:]
	}
	return id, nil
}

func (f *fakeSales) ListHistory(_ context.Context, ownerID string) ([]entity.SalesGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyOf = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeSales) Update(_ context.Context, saleID string, items []entity.SaleItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updates[saleID] = items
	return nil
}

func (f *fakeSales) Delete(_ context.Context, saleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, saleID)
	return nil
}

type fakeCustomers struct {
	known map[string]entity.Customer
	err   error
	calls int
}

func (f *fakeCustomers) GetByNationalID(_ context.Context, nationalID string) (*entity.Customer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.known[nationalID]
	if !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return &c, nil
}

type fakeReceipts struct {
	id       string
	err      error
	docErr   error
	doc      []byte
	gate     *gate
	creates  int
	docCalls int
	saleID   string
	customer entity.Customer
	total    float64
}

func (f *fakeReceipts) Create(_ context.Context, saleID string, customer entity.Customer, total float64) (string, error) {
	f.creates++
	f.gate.wait()
	if f.err != nil {
		return "", f.err
	}
	f.saleID, f.customer, f.total = saleID, customer, total
	return f.id, nil
}

func (f *fakeReceipts) Document(context.Context, string) ([]byte, error) {
	f.docCalls++
	if f.docErr != nil {
		return nil, f.docErr
	}
	return f.doc, nil
}
