package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/cache"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/repository"
)

var fixedNow = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

type memProducts struct {
	items map[string]models.Product
	reads int
}

func newMemProducts(ps ...models.Product) *memProducts {
	m := &memProducts{items: map[string]models.Product{}}
	for _, p := range ps {
		m.items[p.ProductID] = p
	}
	return m
}

func (m *memProducts) List(context.Context) ([]models.Product, error) {
	m.reads++
	out := make([]models.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	m.reads++
	out := make([]models.Product, 0)
	for _, p := range m.items {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Get(_ context.Context, id string) (*models.Product, error) {
	m.reads++
	p, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) Put(_ context.Context, p *models.Product) error {
	m.items[p.ProductID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(float64)
		case "stock":
			p.Stock = v.(int)
		case "category":
			p.Category = v.(string)
		case "updatedAt":
			p.UpdatedAt = v.(string)
		}
	}
	m.items[id] = p
	return &p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type fakePresigner struct {
	key, contentType string
	err              error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string) (*awspkg.PresignedUpload, error) {
	f.key, f.contentType = key, contentType
	if f.err != nil {
		return nil, f.err
	}
	return &awspkg.PresignedUpload{URL: "https://bucket.s3/" + key, Key: key}, nil
}

func newProductService(repo *memProducts, c cache.ProductCache, p Presigner) *ProductService {
	s := NewProductService(repo, c, p, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func strPtr(s string) *string { return &s }

func TestCreateProductDefaults(t *testing.T) {
	repo := newMemProducts()
	svc := newProductService(repo, nil, nil)

	p, err := svc.CreateProduct(context.Background(), &CreateProductRequest{Name: "Oil", Price: 24.99})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.ProductID, "product-"))
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, models.Timestamp(fixedNow), p.CreatedAt)
	assert.Contains(t, repo.items, p.ProductID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newProductService(newMemProducts(), nil, nil)
	for _, req := range []*CreateProductRequest{
		{Price: 3},
		{Name: "  ", Price: 3},
		{Name: "Oil"},
		{Name: "Oil", Price: -1},
	} {
		_, err := svc.CreateProduct(context.Background(), req)
		assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
		assert.Equal(t, "Name and valid price are required", err.Error())
	}
}

func TestUpdateProduct(t *testing.T) {
	repo := newMemProducts(models.Product{ProductID: "p1", Name: "Old", Category: "general", Price: 5})
	svc := newProductService(repo, nil, nil)

	p, err := svc.UpdateProduct(context.Background(), "p1", &UpdateProductRequest{Name: strPtr("New"), Category: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "general", p.Category, "empty category is ignored")
	assert.Equal(t, models.Timestamp(fixedNow), p.UpdatedAt)
}

func TestUpdateProductErrors(t *testing.T) {
	svc := newProductService(newMemProducts(), nil, nil)

	_, err := svc.UpdateProduct(context.Background(), "p1", &UpdateProductRequest{Name: strPtr("")})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Equal(t, "No fields to update", err.Error())

	_, err = svc.UpdateProduct(context.Background(), "p1", &UpdateProductRequest{Name: strPtr("x")})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestReadsAreCachedUntilWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := cache.NewRedisCache(client, time.Minute, zap.NewNop())

	repo := newMemProducts(models.Product{ProductID: "p1", Name: "Oil", Price: 5, Category: "fluids"})
	svc := newProductService(repo, c, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.GetProduct(ctx, "p1")
		require.NoError(t, err)
		list, err := svc.ListProducts(ctx, "fluids")
		require.NoError(t, err)
		require.Len(t, list, 1)
	}
	assert.Equal(t, 2, repo.reads)

	_, err := svc.UpdateProduct(ctx, "p1", &UpdateProductRequest{Name: strPtr("Synthetic oil")})
	require.NoError(t, err)

	p, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Synthetic oil", p.Name)
	list, err := svc.ListProducts(ctx, "fluids")
	require.NoError(t, err)
	assert.Equal(t, "Synthetic oil", list[0].Name)
}

func TestDeleteProduct(t *testing.T) {
	repo := newMemProducts(models.Product{ProductID: "p1"})
	svc := newProductService(repo, nil, nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), "p1"))
	_, err := svc.GetProduct(context.Background(), "p1")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestImageUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	svc := newProductService(newMemProducts(models.Product{ProductID: "p1"}), nil, presigner)

	up, err := svc.ImageUploadURL(context.Background(), "p1", &ImageUploadRequest{FileName: "front.PNG", ContentType: "image/png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Key, "products/p1/"))
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, "image/png", presigner.contentType)

	_, err = svc.ImageUploadURL(context.Background(), "p1", &ImageUploadRequest{})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", presigner.contentType)
	assert.True(t, strings.HasSuffix(presigner.key, ".jpg"))
}

func TestImageUploadURLErrors(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts(models.Product{ProductID: "p1"})

	_, err := newProductService(repo, nil, nil).ImageUploadURL(ctx, "p1", &ImageUploadRequest{})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	svc := newProductService(repo, nil, &fakePresigner{})
	_, err = svc.ImageUploadURL(ctx, "p1", &ImageUploadRequest{ContentType: "application/pdf"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.ImageUploadURL(ctx, "missing", &ImageUploadRequest{})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	svc = newProductService(repo, nil, &fakePresigner{err: errors.New("no creds")})
	_, err = svc.ImageUploadURL(ctx, "p1", &ImageUploadRequest{})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
