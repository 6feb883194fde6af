package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type fakeCatalog struct {
	products map[int]models.Product
	variants map[int]models.Variant

	variantLookups int
	failVariants   bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int]models.Product{},
		variants: map[int]models.Variant{},
	}
}

func (f *fakeCatalog) addProduct(id int, basePrice string) {
	f.products[id] = models.Product{
		ID:          id,
		Name:        "product",
		BasePrice:   decimal.RequireFromString(basePrice),
		IsAvailable: true,
	}
}

func (f *fakeCatalog) addVariant(id, productID int, delta string) {
	v := models.Variant{ID: id, ProductID: productID, Name: "color", IsAvailable: true}
	if delta != "" {
		v.PriceDelta = decimal.NewNullDecimal(decimal.RequireFromString(delta))
	}
	f.variants[id] = v
}

func (f *fakeCatalog) GetByID(_ context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) List(_ context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeCatalog) GetCategories(context.Context) ([]string, error) {
	return []string{"chairs"}, nil
}

func (f *fakeCatalog) GetVariantsByIDs(_ context.Context, ids []int) ([]models.Variant, error) {
	f.variantLookups++
	if f.failVariants {
		return nil, errStoreDown
	}
	out := []models.Variant{}
	for _, id := range ids {
		if v, ok := f.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetVariantsByProductID(_ context.Context, productID int) ([]models.Variant, error) {
	out := []models.Variant{}
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeConfigStore struct {
	mu    sync.Mutex
	rows  map[string]models.Configuration
	clock time.Time
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{
		rows:  map[string]models.Configuration{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeConfigStore) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeConfigStore) Create(_ context.Context, cfg *models.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	cfg.CreatedAt, cfg.UpdatedAt = now, now
	row := *cfg
	row.Product = nil
	f.rows[cfg.ID] = row
	return nil
}

func (f *fakeConfigStore) GetByIDForUser(_ context.Context, id string, userID int) (*models.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (f *fakeConfigStore) list(match func(models.Configuration) bool) []models.Configuration {
	out := []models.Configuration{}
	for _, row := range f.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeConfigStore) ListByUser(_ context.Context, userID int) ([]models.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(c models.Configuration) bool { return c.UserID == userID }), nil
}

func (f *fakeConfigStore) ListByUserAndProduct(_ context.Context, userID, productID int) ([]models.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(c models.Configuration) bool { return c.UserID == userID && c.ProductID == productID }), nil
}

func (f *fakeConfigStore) UpdateForUser(_ context.Context, cfg *models.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[cfg.ID]
	if !ok || row.UserID != cfg.UserID {
		return repository.ErrNotFound
	}
	cfg.CreatedAt = row.CreatedAt
	cfg.UpdatedAt = f.tick()
	stored := *cfg
	stored.Product = nil
	f.rows[cfg.ID] = stored
	return nil
}

func (f *fakeConfigStore) DeleteForUser(_ context.Context, id string, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	byID   map[int]models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int]models.User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = *user
	return nil
}

type fakeDenylist struct {
	revoked map[string]time.Duration
	fail    bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Duration{}}
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.fail {
		return errStoreDown
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.fail {
		return false, errStoreDown
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fakeFavoriteStore struct {
	rows  []models.Favorite
	clock time.Time
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeFavoriteStore) Add(_ context.Context, userID, productID int) error {
	for _, r := range f.rows {
		if r.UserID == userID && r.ProductID == productID {
			return nil
		}
	}
	f.clock = f.clock.Add(time.Minute)
	f.rows = append(f.rows, models.Favorite{UserID: userID, ProductID: productID, CreatedAt: f.clock})
	return nil
}

func (f *fakeFavoriteStore) ListByUser(_ context.Context, userID int) ([]models.Favorite, error) {
	out := []models.Favorite{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeFavoriteStore) Remove(_ context.Context, userID, productID int) error {
	for i, r := range f.rows {
		if r.UserID == userID && r.ProductID == productID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCartStore struct {
	items  map[int]models.CartItem
	nextID int
	now    time.Time
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[int]models.CartItem{}, now: time.Now()}
}

func sameConfiguration(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeCartStore) ListByUser(_ context.Context, userID int) ([]models.CartItem, error) {
	out := []models.CartItem{}
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCartStore) FindLine(_ context.Context, userID, productID int, configurationID *string) (*models.CartItem, error) {
	for _, it := range f.items {
		if it.UserID == userID && it.ProductID == productID && sameConfiguration(it.ConfigurationID, configurationID) {
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCartStore) Create(_ context.Context, item *models.CartItem) error {
	f.nextID++
	item.ID = f.nextID
	item.CreatedAt, item.UpdatedAt = f.now, f.now
	row := *item
	row.Product = nil
	f.items[item.ID] = row
	return nil
}

func (f *fakeCartStore) UpdateForUser(_ context.Context, item *models.CartItem) error {
	row, ok := f.items[item.ID]
	if !ok || row.UserID != item.UserID {
		return repository.ErrNotFound
	}
	row.Quantity = item.Quantity
	row.UnitPrice = item.UnitPrice
	row.UpdatedAt = f.now
	f.items[item.ID] = row
	item.ProductID, item.ConfigurationID = row.ProductID, row.ConfigurationID
	return nil
}

func (f *fakeCartStore) GetByIDForUser(_ context.Context, id, userID int) (*models.CartItem, error) {
	row, ok := f.items[id]
	if !ok || row.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (f *fakeCartStore) DeleteForUser(_ context.Context, id, userID int) error {
	row, ok := f.items[id]
	if !ok || row.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCartStore) ClearForUser(_ context.Context, userID int) error {
	for id, it := range f.items {
		if it.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeCartStore) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, it := range f.items {
		if it.UpdatedAt.Before(before) {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}
