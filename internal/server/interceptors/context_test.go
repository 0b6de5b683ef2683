package interceptors

import (
	"context"
	"testing"
)

func TestWithIdentity_SetsAllValues(t *testing.T) {
	ctx := WithIdentity(context.Background(), "acc-1", "alice@example.com")

	accountID, ok := GetAccountID(ctx)
	if !ok {
		t.Fatal("GetAccountID should return true")
	}
	if accountID != "acc-1" {
		t.Errorf("account_id = %q, want %q", accountID, "acc-1")
	}

	email, ok := GetEmail(ctx)
	if !ok {
		t.Fatal("GetEmail should return true")
	}
	if email != "alice@example.com" {
		t.Errorf("email = %q, want %q", email, "alice@example.com")
	}
}

func TestGetAccountID_ReturnsFalseWhenNotSet(t *testing.T) {
	accountID, ok := GetAccountID(context.Background())
	if ok {
		t.Error("GetAccountID should return false when not set")
	}
	if accountID != "" {
		t.Errorf("account_id = %q, want empty string", accountID)
	}
}

func TestGetEmail_ReturnsFalseWhenNotSet(t *testing.T) {
	if _, ok := GetEmail(context.Background()); ok {
		t.Error("GetEmail should return false when not set")
	}
}

func TestContext_Isolation(t *testing.T) {
	base := context.Background()
	ctx1 := WithIdentity(base, "acc-1", "a@example.com")
	ctx2 := WithIdentity(base, "acc-2", "b@example.com")

	id1, _ := GetAccountID(ctx1)
	id2, _ := GetAccountID(ctx2)
	if id1 != "acc-1" || id2 != "acc-2" {
		t.Errorf("ids = %q, %q; want acc-1, acc-2", id1, id2)
	}
	if _, ok := GetAccountID(base); ok {
		t.Error("base context should not carry an identity")
	}
}

func TestWithIdentity_EmptyValues(t *testing.T) {
	ctx := WithIdentity(context.Background(), "", "")
	if _, ok := GetAccountID(ctx); ok {
		t.Error("empty account id should report false")
	}
	if _, ok := GetEmail(ctx); ok {
		t.Error("empty email should report false")
	}
}
