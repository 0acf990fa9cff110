package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
)

type memParts struct {
	mu      sync.Mutex
	parts   map[[2]string]models.Part
	scanErr error
}

func newMemParts(parts ...models.Part) *memParts {
	m := &memParts{parts: map[[2]string]models.Part{}}
	for _, p := range parts {
		m.parts[[2]string{p.UserID, p.PartID}] = p
	}
	return m
}

func (m *memParts) sorted(keep func(models.Part) bool) []models.Part {
	out := make([]models.Part, 0)
	for _, p := range m.parts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartID < out[j].PartID })
	return out
}

func (m *memParts) List(_ context.Context, userID string) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p models.Part) bool { return p.UserID == userID }), nil
}

func (m *memParts) ListByVehicleModel(_ context.Context, userID, model string) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p models.Part) bool { return p.UserID == userID && p.VehicleModel == model }), nil
}

func (m *memParts) ScanAll(_ context.Context, userID string) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	return m.sorted(func(p models.Part) bool { return userID == "" || p.UserID == userID }), nil
}

func (m *memParts) Get(_ context.Context, userID, partID string) (*models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parts[[2]string{userID, partID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memParts) Put(_ context.Context, p *models.Part) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts[[2]string{p.UserID, p.PartID}] = *p
	return nil
}

func (m *memParts) Delete(_ context.Context, userID, partID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.parts, [2]string{userID, partID})
	return nil
}

func (m *memParts) SetCurrentStock(_ context.Context, userID, partID string, qty int, now time.Time) (*models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{userID, partID}
	p, ok := m.parts[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.CurrentStock = qty
	p.UpdatedAt = models.Timestamp(now)
	m.parts[key] = p
	return &p, nil
}

// memStock enforces the version condition like the DynamoDB repository.
// conflicts makes the next N saves fail as if another writer won.
type memStock struct {
	mu        sync.Mutex
	records   map[[2]string]models.StockRecord
	conflicts int
	saves     int
}

func newMemStock() *memStock {
	return &memStock{records: map[[2]string]models.StockRecord{}}
}

func (m *memStock) ListForPart(_ context.Context, partID string) ([]models.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StockRecord, 0)
	for k, r := range m.records {
		if k[0] == partID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStock) Get(_ context.Context, partID, model string) (*models.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[[2]string{partID, model}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStock) Save(_ context.Context, rec *models.StockRecord, expected int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.conflicts > 0 {
		m.conflicts--
		return repository.ErrVersionConflict
	}
	key := [2]string{rec.PartID, rec.VehicleModel}
	if cur, ok := m.records[key]; (ok && cur.Version != expected) || (!ok && expected != 0) {
		return repository.ErrVersionConflict
	}
	m.records[key] = *rec
	return nil
}

type fakeNotifier struct {
	configured bool
	err        error
	subjects   []string
	bodies     []string
}

func (f *fakeNotifier) Configured() bool { return f.configured }

func (f *fakeNotifier) Notify(_ context.Context, subject, body string) error {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return f.err
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
	values map[string]float64
	err    error
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: map[string]int{}, values: map[string]float64{}}
}

// A nil *fakeMetrics records nothing.
func (f *fakeMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[name]++
	return f.err
}

func (f *fakeMetrics) RecordValue(_ context.Context, name string, v float64, _ map[string]string) error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] += v
	return f.err
}
