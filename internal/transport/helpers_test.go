package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-api/internal/domain"
	custommiddleware "inventory-api/internal/middleware"
	"inventory-api/internal/repository"
	"inventory-api/internal/service"
	"inventory-api/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories backing the handler tests. They honor the same
// sentinel errors as the SQL implementations.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := f.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeItemRepo struct {
	items map[uuid.UUID]*domain.Item
}

func (f *fakeItemRepo) Create(ctx context.Context, item *domain.Item) error {
	for _, existing := range f.items {
		if existing.Name == item.Name {
			return repository.ErrItemAlreadyExists
		}
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *domain.Item) error {
	existing, ok := f.items[item.ID]
	if !ok {
		return repository.ErrItemNotFound
	}
	for _, other := range f.items {
		if other.ID != item.ID && other.Name == item.Name {
			return repository.ErrItemAlreadyExists
		}
	}
	item.Photos = existing.Photos
	item.CreatedAt = existing.CreatedAt
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeItemRepo) List(ctx context.Context) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

type fakePhotoRepo struct {
	photos       map[uuid.UUID]*domain.Photo
	nextPosition int64
}

func (f *fakePhotoRepo) CreateBatch(ctx context.Context, photos []*domain.Photo) error {
	for _, photo := range photos {
		f.nextPosition++
		photo.Position = f.nextPosition
		f.photos[photo.ID] = photo
	}
	return nil
}

func (f *fakePhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return nil, repository.ErrPhotoNotFound
	}
	return photo, nil
}

func (f *fakePhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.photos[id]; !ok {
		return repository.ErrPhotoNotFound
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Photo, error) {
	var result []domain.Photo
	for _, photo := range f.photos {
		if photo.ItemID == itemID {
			result = append(result, *photo)
		}
	}
	return result, nil
}

type fakeOptionRepo struct {
	options map[string]*domain.Option
}

func (f *fakeOptionRepo) List(ctx context.Context) ([]*domain.Option, error) {
	result := make([]*domain.Option, 0, len(f.options))
	for _, option := range f.options {
		result = append(result, option)
	}
	return result, nil
}

func (f *fakeOptionRepo) Append(ctx context.Context, optionType, value string) (*domain.Option, error) {
	option, ok := f.options[optionType]
	if !ok {
		option = &domain.Option{ID: uuid.New(), Type: optionType, Values: []string{}}
		f.options[optionType] = option
	}
	option.Values = append(option.Values, value)
	return option, nil
}

type testEnv struct {
	router    *chi.Mux
	userRepo  *fakeUserRepo
	itemRepo  *fakeItemRepo
	photoRepo *fakePhotoRepo
	store     *storage.LocalStorage
	auth      service.AuthService
}

// newTestEnv assembles the full handler stack over in-memory
// repositories and a temp-dir photo store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	userRepo := &fakeUserRepo{users: make(map[string]*domain.User)}
	itemRepo := &fakeItemRepo{items: make(map[uuid.UUID]*domain.Item)}
	photoRepo := &fakePhotoRepo{photos: make(map[uuid.UUID]*domain.Photo)}
	optionRepo := &fakeOptionRepo{options: make(map[string]*domain.Option)}

	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	auth := service.NewAuthService(userRepo, nil, "test-secret", time.Hour)
	itemService := service.NewItemService(itemRepo, photoRepo, store, logger)
	uploadService := service.NewUploadService(itemRepo, photoRepo, store, 10<<20, 10, logger)
	optionService := service.NewOptionService(optionRepo)

	router := chi.NewRouter()
	authMiddleware := custommiddleware.AuthMiddleware(auth, logger)
	NewAuthHandler(auth, logger).RegisterRoutes(router, authMiddleware)
	NewItemHandler(itemService, logger).RegisterRoutes(router, authMiddleware)
	NewUploadHandler(uploadService, 10<<20, 10, logger).RegisterRoutes(router, authMiddleware)
	NewOptionHandler(optionService, logger).RegisterRoutes(router)

	return &testEnv{
		router:    router,
		userRepo:  userRepo,
		itemRepo:  itemRepo,
		photoRepo: photoRepo,
		store:     store,
		auth:      auth,
	}
}

// login registers a user and returns a valid bearer token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	email := "tester-" + uuid.New().String() + "@example.com"
	if _, err := e.auth.Register(ctx, email, "password123", "Test", "User"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	token, _, err := e.auth.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seedItem(t *testing.T, e *testEnv, name string) *domain.Item {
	t.Helper()

	item := &domain.Item{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     1,
		Category:     "cat",
		Manufacturer: "maker",
		Machine:      "machine-1",
		Description:  "desc",
		Photos:       []domain.Photo{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := e.itemRepo.Create(context.Background(), item); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return item
}
