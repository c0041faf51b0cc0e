package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// Los mocks embeben la interfaz: un método no programado entra en pánico por puntero nil,
// lo que delata llamadas inesperadas.

type mockProducts struct {
	repository.ProductRepository
	mock.Mock
}

func (m *mockProducts) Create(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *mockProducts) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProducts) ExistsByBarcode(ctx context.Context, barcode, excludeID string) (bool, error) {
	args := m.Called(ctx, barcode, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProducts) Update(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProducts) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *mockProducts) AddTag(ctx context.Context, productID, tagID string) error {
	return m.Called(ctx, productID, tagID).Error(0)
}

type mockCategories struct {
	repository.CategoryRepository
	mock.Mock
}

func (m *mockCategories) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategories) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategories) Create(ctx context.Context, c *entity.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategories) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockTags struct {
	repository.TagRepository
	mock.Mock
}

func (m *mockTags) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*entity.Tag)
	return t, args.Error(1)
}

type mockStock struct {
	repository.StockRepository
	mock.Mock
}

func (m *mockStock) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStock) ExistsForLocation(ctx context.Context, locationID string) (bool, error) {
	args := m.Called(ctx, locationID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStock) ListLowStock(ctx context.Context, threshold int64, limit, offset int) ([]*entity.StockDetail, error) {
	args := m.Called(ctx, threshold, limit, offset)
	rows, _ := args.Get(0).([]*entity.StockDetail)
	return rows, args.Error(1)
}

func (m *mockStock) ListDetailed(ctx context.Context, locationID string) ([]*entity.StockDetail, error) {
	args := m.Called(ctx, locationID)
	rows, _ := args.Get(0).([]*entity.StockDetail)
	return rows, args.Error(1)
}

type mockLocations struct {
	repository.LocationRepository
	mock.Mock
}

func (m *mockLocations) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*entity.Location)
	return l, args.Error(1)
}

func (m *mockLocations) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockSessions struct {
	repository.InventorySessionRepository
	mock.Mock
}

func (m *mockSessions) ExistsForLocation(ctx context.Context, locationID string) (bool, error) {
	args := m.Called(ctx, locationID)
	return args.Bool(0), args.Error(1)
}

type mockSales struct {
	repository.SaleRepository
	mock.Mock
}

func (m *mockSales) TopSelling(ctx context.Context, from, to time.Time, byRevenue bool, limit int) ([]entity.ProductSales, error) {
	args := m.Called(ctx, from, to, byRevenue, limit)
	rows, _ := args.Get(0).([]entity.ProductSales)
	return rows, args.Error(1)
}

func (m *mockSales) Summary(ctx context.Context, from, to time.Time) (entity.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(entity.SalesSummary), args.Error(1)
}

type mockPurchases struct {
	repository.PurchaseRepository
	mock.Mock
}

func (m *mockPurchases) List(ctx context.Context, f repository.TransactionFilter, limit, offset int) ([]*entity.Purchase, error) {
	args := m.Called(ctx, f, limit, offset)
	list, _ := args.Get(0).([]*entity.Purchase)
	return list, args.Error(1)
}

func (m *mockPurchases) Summary(ctx context.Context, from, to time.Time, supplierID string) (entity.PurchaseSummary, error) {
	args := m.Called(ctx, from, to, supplierID)
	return args.Get(0).(entity.PurchaseSummary), args.Error(1)
}

type mockRecipes struct {
	repository.RecipeRepository
	mock.Mock
}

func (m *mockRecipes) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.Recipe)
	return r, args.Error(1)
}

func (m *mockRecipes) GetByProductID(ctx context.Context, productID string) (*entity.Recipe, error) {
	args := m.Called(ctx, productID)
	r, _ := args.Get(0).(*entity.Recipe)
	return r, args.Error(1)
}

func (m *mockRecipes) Create(ctx context.Context, r *entity.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRecipes) AddIngredient(ctx context.Context, ing *entity.RecipeIngredient) error {
	return m.Called(ctx, ing).Error(0)
}

func (m *mockRecipes) ListIngredients(ctx context.Context, recipeID string) ([]entity.RecipeIngredient, error) {
	args := m.Called(ctx, recipeID)
	rows, _ := args.Get(0).([]entity.RecipeIngredient)
	return rows, args.Error(1)
}
