package banks

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type stubRepo struct {
	byID   map[int64]*Account
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[int64]*Account), nextID: 1}
}

func (r *stubRepo) List(_ context.Context, _ Filters) ([]Account, int, error) {
	var list []Account
	for _, a := range r.byID {
		list = append(list, *a)
	}
	return list, len(list), nil
}

func (r *stubRepo) ListByUser(_ context.Context, userID int64) ([]Account, error) {
	var list []Account
	for _, a := range r.byID {
		if a.UserID == userID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (*Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *stubRepo) Create(_ context.Context, a *Account) (*Account, error) {
	a.ID = r.nextID
	r.nextID++
	r.byID[a.ID] = a
	copied := *a
	return &copied, nil
}

func (r *stubRepo) Update(_ context.Context, a *Account) (*Account, error) {
	existing, ok := r.byID[a.ID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	a.UserID = existing.UserID
	a.Verified = false
	r.byID[a.ID] = a
	copied := *a
	return &copied, nil
}

func (r *stubRepo) SetVerified(_ context.Context, id int64, verified bool) error {
	a, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.Verified = verified
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreateRejectsUnknownCurrency(t *testing.T) {
	svc := NewService(newStubRepo())
	_, err := svc.Create(context.Background(), Account{
		UserID: 1, BankName: "First Bank", BankCode: "011",
		AccountNumber: "0123456789", AccountName: "Ada", Currency: "XXX-NOT-ISO",
	})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStartsUnverified(t *testing.T) {
	svc := NewService(newStubRepo())
	account, err := svc.Create(context.Background(), Account{
		UserID: 1, BankName: "First Bank", BankCode: "011",
		AccountNumber: "0123456789", AccountName: "Ada", Currency: "NGN",
		Verified: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.Verified {
		t.Fatal("new accounts must start unverified")
	}
}

func TestUpdateClearsVerification(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Account{
		UserID: 1, BankName: "First Bank", BankCode: "011",
		AccountNumber: "0123456789", AccountName: "Ada", Currency: "NGN",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetVerified(context.Background(), created.ID, true); err != nil {
		t.Fatalf("verify: %v", err)
	}

	updated, err := svc.Update(context.Background(), Account{
		ID: created.ID, BankName: "First Bank", BankCode: "011",
		AccountNumber: "9876543210", AccountName: "Ada", Currency: "NGN",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Verified {
		t.Fatal("edits must clear the verified flag")
	}
}

func TestSetVerifiedUnknownAccount(t *testing.T) {
	svc := NewService(newStubRepo())
	if _, err := svc.SetVerified(context.Background(), 42, true); !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
