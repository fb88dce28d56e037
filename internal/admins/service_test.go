package admins

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type stubRepo struct {
	byID   map[int64]*Admin
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[int64]*Admin), nextID: 1}
}

func (r *stubRepo) List(_ context.Context, _ Filters) ([]Admin, int, error) {
	var list []Admin
	for _, a := range r.byID {
		list = append(list, *a)
	}
	return list, len(list), nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (*Admin, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *stubRepo) Create(_ context.Context, a *Admin) (*Admin, error) {
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, httpx.ErrDuplicate
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.byID[a.ID] = a
	copied := *a
	return &copied, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, name string, roleID *int64) (*Admin, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	a.Name = name
	a.RoleID = roleID
	copied := *a
	return &copied, nil
}

func (r *stubRepo) SetActive(_ context.Context, id int64, active bool) error {
	a, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.IsActive = active
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	admin, err := svc.Create(context.Background(), "ops@meridian.test", "Ada Ops", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if admin.PasswordHash == "s3cret-pass" || admin.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if !admin.IsActive {
		t.Fatal("new accounts start active")
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), "ops@meridian.test", "Ada", "password-one", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "ops@meridian.test", "Bob", "password-two", nil); !errors.Is(err, httpx.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestSetActiveTogglesAccount(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "ops@meridian.test", "Ada", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	admin, err := svc.SetActive(context.Background(), created.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if admin.IsActive {
		t.Fatal("expected disabled account")
	}

	if _, err := svc.SetActive(context.Background(), 99, false); !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateReassignsRole(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "ops@meridian.test", "Ada", "s3cret-pass", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	roleID := int64(3)
	admin, err := svc.Update(context.Background(), created.ID, "Ada Ops", &roleID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if admin.Name != "Ada Ops" || admin.RoleID == nil || *admin.RoleID != 3 {
		t.Fatalf("unexpected admin: %+v", admin)
	}
}
