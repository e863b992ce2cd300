package store

import (
	"context"
	"errors"
	"testing"

	"github.com/binhauler/binhauler/internal/db"
	"github.com/binhauler/binhauler/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "driver1", "hash123", model.RoleDriver)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Role != model.RoleDriver {
		t.Errorf("expected role 'driver', got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "driver1" {
		t.Errorf("expected username 'driver1', got %q", got.Username)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateUser(context.Background(), database, "x", "hash", "manager")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUsernameReusableAfterDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "dispatch", "hash", model.RoleDispatcher)
	if _, err := CreateUser(ctx, database, "dispatch", "hash", model.RoleDispatcher); err == nil {
		t.Fatal("expected duplicate active username to fail")
	}

	DeleteUser(ctx, database, user.ID)

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after delete, got %d", len(users))
	}
	if got, _ := GetUserByUsername(ctx, database, "dispatch"); got != nil {
		t.Error("expected deleted user to be invisible by username")
	}
	if _, err := CreateUser(ctx, database, "dispatch", "hash", model.RoleDispatcher); err != nil {
		t.Errorf("expected username to be reusable, got %v", err)
	}
}

func TestUpdateUserRoleAndPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "pwuser", "oldhash", model.RoleDriver)
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	if err := UpdateUserRole(ctx, database, user.ID, model.RoleDispatcher); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
	if got.Role != model.RoleDispatcher {
		t.Errorf("expected role 'dispatcher', got %q", got.Role)
	}

	if err := UpdateUserRole(ctx, database, 999, model.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for missing user, got %v", err)
	}
}
