package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/repository"
)

type memInventory struct {
	records   map[[2]string]models.InventoryRecord
	order     [][2]string
	products  map[string]bool
	conflicts int
	saves     int
	listErr   error
}

func newMemInventory(products ...string) *memInventory {
	m := &memInventory{records: map[[2]string]models.InventoryRecord{}, products: map[string]bool{}}
	for _, p := range products {
		m.products[p] = true
	}
	return m
}

func (m *memInventory) seed(recs ...models.InventoryRecord) {
	for _, r := range recs {
		k := [2]string{r.ProductID, r.LocationID}
		m.records[k] = r
		m.order = append(m.order, k)
	}
}

func (m *memInventory) List(context.Context) ([]models.InventoryRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.InventoryRecord, 0)
	for _, k := range m.order {
		out = append(out, m.records[k])
	}
	return out, nil
}

func (m *memInventory) ListByLocation(ctx context.Context, loc string) ([]models.InventoryRecord, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.InventoryRecord, 0)
	for _, r := range all {
		if r.LocationID == loc {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memInventory) ListForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	all, _ := m.List(ctx)
	out := make([]models.InventoryRecord, 0)
	for _, r := range all {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memInventory) Get(_ context.Context, productID, loc string) (*models.InventoryRecord, error) {
	r, ok := m.records[[2]string{productID, loc}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memInventory) Save(_ context.Context, rec *models.InventoryRecord, prev *int) error {
	m.saves++
	if m.conflicts > 0 {
		m.conflicts--
		return repository.ErrQuantityChanged
	}
	k := [2]string{rec.ProductID, rec.LocationID}
	cur, exists := m.records[k]
	if (prev == nil) == exists || (prev != nil && cur.Quantity != *prev) {
		return repository.ErrQuantityChanged
	}
	if !exists {
		m.order = append(m.order, k)
	}
	m.records[k] = *rec
	return nil
}

func (m *memInventory) Product(_ context.Context, productID string) (*models.Product, error) {
	if !m.products[productID] {
		return nil, repository.ErrNotFound
	}
	return &models.Product{ProductID: productID}, nil
}

type fakeMetrics struct {
	counts map[string]int
}

func (f *fakeMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[name]++
	return nil
}

func (f *fakeMetrics) RecordValue(context.Context, string, float64, map[string]string) error {
	return nil
}

func newTestService(repo repository.InventoryRepository, metrics *fakeMetrics) *InventoryService {
	var recorder awspkg.MetricsRecorder
	if metrics != nil {
		recorder = metrics
	}
	s := NewInventoryService(repo, recorder, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return s
}

func intp(v int) *int { return &v }

func TestUpdate_NewRecordDefaultsReorderLevel(t *testing.T) {
	repo := newMemInventory("p1")
	metrics := &fakeMetrics{}
	rec, err := newTestService(repo, metrics).Update(context.Background(), "p1", &UpdateInventoryRequest{
		LocationID: "w1", Quantity: intp(25),
	})
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Quantity)
	assert.Equal(t, DefaultReorderLevel, rec.ReorderLevel)
	assert.Equal(t, "2026-03-14T09:30:00.000Z", rec.UpdatedAt)
	assert.Equal(t, 1, metrics.counts["StockAdjusted"])
}

func TestUpdate_Operations(t *testing.T) {
	cases := []struct {
		op   string
		qty  int
		want int
	}{
		{"", 4, 4},
		{"set", 4, 4},
		{"add", 4, 12},
		{"subtract", 3, 5},
		{"subtract", 20, 0},
	}
	for _, tc := range cases {
		repo := newMemInventory("p1")
		repo.seed(models.InventoryRecord{ProductID: "p1", LocationID: "w1", Quantity: 8, ReorderLevel: 3})
		rec, err := newTestService(repo, nil).Update(context.Background(), "p1", &UpdateInventoryRequest{
			LocationID: "w1", Quantity: intp(tc.qty), Operation: tc.op,
		})
		require.NoError(t, err, tc.op)
		assert.Equal(t, tc.want, rec.Quantity, "%s %d", tc.op, tc.qty)
		assert.Equal(t, 3, rec.ReorderLevel, "existing level is kept")
	}
}

func TestUpdate_Validation(t *testing.T) {
	repo := newMemInventory("p1")
	svc := newTestService(repo, nil)

	_, err := svc.Update(context.Background(), "p1", &UpdateInventoryRequest{Quantity: intp(1)})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.Update(context.Background(), "p1", &UpdateInventoryRequest{LocationID: "w1"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.Update(context.Background(), "p1", &UpdateInventoryRequest{LocationID: "w1", Quantity: intp(1), Operation: "double"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.Update(context.Background(), "nope", &UpdateInventoryRequest{LocationID: "w1", Quantity: intp(1)})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUpdate_RejectsLevelPastLimit(t *testing.T) {
	repo := newMemInventory("p1")
	repo.seed(models.InventoryRecord{ProductID: "p1", LocationID: "w1", Quantity: 5, ReorderLevel: 3})
	svc := newTestService(repo, nil)

	_, err := svc.Update(context.Background(), "p1", &UpdateInventoryRequest{
		LocationID: "w1", Quantity: intp(math.MaxInt64), Operation: "add",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Equal(t, 0, repo.saves)

	rec, err := repo.Get(context.Background(), "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Quantity)
}

func TestUpdate_RetriesLostRace(t *testing.T) {
	repo := newMemInventory("p1")
	repo.conflicts = 2
	rec, err := newTestService(repo, nil).Update(context.Background(), "p1", &UpdateInventoryRequest{
		LocationID: "w1", Quantity: intp(3), Operation: "add",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, 3, repo.saves)
}

func TestUpdate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newMemInventory("p1")
	repo.conflicts = maxWriteAttempts
	metrics := &fakeMetrics{}
	_, err := newTestService(repo, metrics).Update(context.Background(), "p1", &UpdateInventoryRequest{
		LocationID: "w1", Quantity: intp(3),
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, 1, metrics.counts["StockConflicts"])
	assert.Empty(t, repo.records)
}

func TestLowStock_OrdersByUrgency(t *testing.T) {
	repo := newMemInventory()
	repo.seed(
		models.InventoryRecord{ProductID: "a", LocationID: "w1", Quantity: 8, ReorderLevel: 10},
		models.InventoryRecord{ProductID: "b", LocationID: "w1", Quantity: 50, ReorderLevel: 10},
		models.InventoryRecord{ProductID: "c", LocationID: "w2", Quantity: 1, ReorderLevel: 10},
		models.InventoryRecord{ProductID: "d", LocationID: "w1", Quantity: 0, ReorderLevel: 0},
	)
	svc := newTestService(repo, nil)

	low, err := svc.LowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "c", low[0].ProductID)
	assert.Equal(t, "a", low[1].ProductID)

	low, err = svc.LowStock(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "a", low[0].ProductID)
}

func TestList_Failure(t *testing.T) {
	repo := newMemInventory()
	repo.listErr = errors.New("throttled")
	_, err := newTestService(repo, nil).List(context.Background(), "")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
