package cart

import (
	"context"
	"errors"
	"testing"

	"seesaw/internal/domain"
	"seesaw/internal/store/local"
)

type stubRemote struct {
	lines       []domain.CartLine
	loadErr     error
	upsertErr   error
	lastUpsert  domain.CartLine
	upserts     int
	updates     int
	removes     int
	lastQty     int
	clearCalled bool
}

func (s *stubRemote) Load(_ context.Context, _ string) ([]domain.CartLine, error) {
	return s.lines, s.loadErr
}

func (s *stubRemote) UpsertLine(_ context.Context, _ string, line domain.CartLine) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.lastUpsert = line
	s.upserts++
	return nil
}

func (s *stubRemote) RemoveLine(_ context.Context, _ string, _ domain.VariantKey) error {
	s.removes++
	return nil
}

func (s *stubRemote) UpdateQuantity(_ context.Context, _ string, _ domain.VariantKey, quantity int) error {
	s.updates++
	s.lastQty = quantity
	return nil
}

func (s *stubRemote) Clear(_ context.Context, _ string) error {
	s.clearCalled = true
	return nil
}

func guestActor() Actor { return Actor{DeviceID: "dev1"} }
func userActor() Actor  { return Actor{UserID: "u1", DeviceID: "dev1"} }

func tee(qty int) domain.CartLine {
	return domain.CartLine{ProductID: "p1", Name: "Tee", PriceCents: 1999, Size: "M", Color: "black", Quantity: qty}
}

func TestAddValidation(t *testing.T) {
	svc := New(&stubRemote{}, local.New(local.NewMemorySlots(), nil), nil)
	if _, err := svc.Add(context.Background(), guestActor(), domain.CartLine{Quantity: 1}); err == nil {
		t.Fatalf("expected productId error")
	}
	if _, err := svc.Add(context.Background(), guestActor(), domain.CartLine{ProductID: "p1", Quantity: 0}); err == nil {
		t.Fatalf("expected quantity error")
	}
}

func TestGuestAddPersistsLocally(t *testing.T) {
	store := local.New(local.NewMemorySlots(), nil)
	svc := New(&stubRemote{}, store, nil)

	lines, err := svc.Add(context.Background(), guestActor(), tee(2))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if got := store.LoadCart("dev1"); len(got) != 1 {
		t.Fatalf("local store not updated: %+v", got)
	}
}

func TestAuthenticatedAddSumsThenReplaces(t *testing.T) {
	remote := &stubRemote{lines: []domain.CartLine{tee(2)}}
	svc := New(remote, local.New(local.NewMemorySlots(), nil), nil)

	lines, err := svc.Add(context.Background(), userActor(), tee(3))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected summed quantity 5, got %+v", lines)
	}
	if remote.lastUpsert.Quantity != 5 {
		t.Fatalf("upsert should carry the summed quantity, got %d", remote.lastUpsert.Quantity)
	}
}

func TestAuthenticatedAddRemoteFailureSurfaces(t *testing.T) {
	remote := &stubRemote{upsertErr: errors.New("store unreachable")}
	svc := New(remote, local.New(local.NewMemorySlots(), nil), nil)
	if _, err := svc.Add(context.Background(), userActor(), tee(1)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpdateQuantityClamps(t *testing.T) {
	remote := &stubRemote{lines: []domain.CartLine{tee(3)}}
	svc := New(remote, local.New(local.NewMemorySlots(), nil), nil)

	lines, err := svc.UpdateQuantity(context.Background(), userActor(), tee(0).Key(), 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if lines[0].Quantity != 1 || remote.lastQty != 1 {
		t.Fatalf("expected clamp to 1, got state %d remote %d", lines[0].Quantity, remote.lastQty)
	}
}

func TestUpdateQuantityAbsentKeySkipsRemote(t *testing.T) {
	remote := &stubRemote{lines: []domain.CartLine{tee(3)}}
	svc := New(remote, local.New(local.NewMemorySlots(), nil), nil)

	key := domain.VariantKey{ProductID: "p9", Size: "M", Color: "black"}
	lines, err := svc.UpdateQuantity(context.Background(), userActor(), key, 2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("no-op expected, got %+v", lines)
	}
	if remote.updates != 0 {
		t.Fatalf("absent key must not hit the remote store")
	}
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote, local.New(local.NewMemorySlots(), nil), nil)

	key := domain.VariantKey{ProductID: "p9"}
	if _, err := svc.Remove(context.Background(), userActor(), key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if remote.removes != 0 {
		t.Fatalf("absent key must not hit the remote store")
	}
}

func TestGuestRemove(t *testing.T) {
	store := local.New(local.NewMemorySlots(), nil)
	store.SaveCart("dev1", []domain.CartLine{tee(2)})
	svc := New(&stubRemote{}, store, nil)

	lines, err := svc.Remove(context.Background(), guestActor(), tee(0).Key())
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
	if got := store.LoadCart("dev1"); len(got) != 0 {
		t.Fatalf("local store should be empty, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	remote := &stubRemote{}
	store := local.New(local.NewMemorySlots(), nil)
	store.SaveCart("dev1", []domain.CartLine{tee(1)})
	svc := New(remote, store, nil)

	if err := svc.Clear(context.Background(), userActor()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !remote.clearCalled {
		t.Fatalf("remote clear not called")
	}

	if err := svc.Clear(context.Background(), guestActor()); err != nil {
		t.Fatalf("clear guest: %v", err)
	}
	if got := store.LoadCart("dev1"); len(got) != 0 {
		t.Fatalf("local cart should be cleared, got %+v", got)
	}
}
