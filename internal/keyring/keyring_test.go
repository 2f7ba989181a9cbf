package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringLifecycle(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://habits@localhost:5432/habitlit?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); err != ErrNotFound {
		t.Errorf("after delete, GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); err != ErrNotFound {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetEmptyRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetSession(""); err == nil {
		t.Error("SetSession(\"\") should return an error")
	}
}

func TestSessionLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetSession(); err != ErrNotFound {
		t.Fatalf("GetSession() error = %v, want %v", err, ErrNotFound)
	}

	if err := SetSession("header.payload.sig"); err != nil {
		t.Fatalf("SetSession() failed: %v", err)
	}
	got, err := GetSession()
	if err != nil || got != "header.payload.sig" {
		t.Fatalf("GetSession() = %q, %v", got, err)
	}

	if err := DeleteSession(); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	// Deleting again is a no-op.
	if err := DeleteSession(); err != nil {
		t.Errorf("DeleteSession() on empty keyring = %v, want nil", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
