package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"starter-api/internal/cache"
	"starter-api/internal/database/dbtest"
	"starter-api/internal/models"
	"starter-api/internal/password"
	"starter-api/internal/repository"
)

// fakeCache is an in-memory cache.Cache
type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	failAll bool
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

var errCacheDown = errors.New("cache down")

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failAll {
		return "", errCacheDown
	}
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errCacheDown
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.Set(ctx, key, string(data), expiration)
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	v, err := f.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (f *fakeCache) Close() error { return nil }

func ptr[T any](v T) *T { return &v }

func newUserService() UserService {
	return NewUserService(repository.NewUserRepository(), password.NewHasher(bcrypt.MinCost), zap.NewNop())
}

func TestUserCreateHashesPassword(t *testing.T) {
	db := dbtest.New(t)
	svc := newUserService()

	first := "Ada"
	user, err := svc.Create(db, &models.UserCreate{Email: "a@x.com", FirstName: &first, Password: "secret1"})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret1")))

	got, found, err := svc.GetByEmail(db, "a@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, user, got)

	got, found, err = svc.Get(db, user.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, user.Email, got.Email)
}

func TestUserCreateDuplicateIsReported(t *testing.T) {
	db := dbtest.New(t)
	svc := newUserService()

	_, err := svc.Create(db, &models.UserCreate{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Create(db, &models.UserCreate{Email: "a@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserAuthenticate(t *testing.T) {
	db := dbtest.New(t)
	svc := newUserService()

	created, err := svc.Create(db, &models.UserCreate{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	user, ok, err := svc.Authenticate(db, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, created.ID, user.ID)

	_, ok, err = svc.Authenticate(db, "a@x.com", "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Authenticate(db, "nobody@x.com", "secret1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserList(t *testing.T) {
	db := dbtest.New(t)
	svc := newUserService()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.Create(db, &models.UserCreate{Email: email, Password: "secret1"})
		require.NoError(t, err)
	}

	users, err := svc.List(db, 0, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = svc.List(db, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestItemServiceWithoutCache(t *testing.T) {
	db := dbtest.New(t)
	svc := NewItemService(repository.NewItemRepository(), nil, time.Minute, zap.NewNop())

	item, err := svc.Create(db, &models.ItemCreate{Name: "lamp", Price: ptr(9.99)})
	require.NoError(t, err)

	got, found, err := svc.Get(db, item.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, got)

	_, found, err = svc.Get(db, item.ID+100)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.Create(db, &models.ItemCreate{Name: "lamp", Price: ptr(1.0)})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	items, err := svc.List(db, 0, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemServiceReadsThroughCache(t *testing.T) {
	db := dbtest.New(t)
	fc := newFakeCache()
	svc := NewItemService(repository.NewItemRepository(), fc, time.Minute, zap.NewNop())

	desc := "bright"
	item, err := svc.Create(db, &models.ItemCreate{Name: "lamp", Description: &desc, Price: ptr(9.99)})
	require.NoError(t, err)

	assert.True(t, fc.has(itemCacheKey(item.ID)), "create populates the cache")

	// Remove the row so only the cache can answer.
	require.NoError(t, db.Exec("DELETE FROM items").Error)

	got, found, err := svc.Get(db, item.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, got)
}

func TestItemServiceIgnoresCacheFailures(t *testing.T) {
	db := dbtest.New(t)
	fc := newFakeCache()
	fc.failAll = true
	svc := NewItemService(repository.NewItemRepository(), fc, time.Minute, zap.NewNop())

	item, err := svc.Create(db, &models.ItemCreate{Name: "lamp", Price: ptr(9.99)})
	require.NoError(t, err)

	got, found, err := svc.Get(db, item.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, 1, fc.gets)
}
