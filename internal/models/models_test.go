package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
)

func TestValidRole(t *testing.T) {
	tests := []struct {
		role  models.Role
		valid bool
	}{
		{models.RoleUser, true},
		{models.RoleAdmin, true},
		{models.Role("superuser"), false},
		{models.Role(""), false},
	}

	for _, tt := range tests {
		if got := models.ValidRole(tt.role); got != tt.valid {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.valid)
		}
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status models.Status
		valid  bool
	}{
		{models.StatusTodo, true},
		{models.StatusInProgress, true},
		{models.StatusDone, true},
		{models.Status("pending"), false},
		{models.Status(""), false},
	}

	for _, tt := range tests {
		if got := models.ValidStatus(tt.status); got != tt.valid {
			t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.valid)
		}
	}
}

func TestValidPriority(t *testing.T) {
	tests := []struct {
		priority models.Priority
		valid    bool
	}{
		{models.PriorityLow, true},
		{models.PriorityMedium, true},
		{models.PriorityHigh, true},
		{models.Priority("urgent"), false},
	}

	for _, tt := range tests {
		if got := models.ValidPriority(tt.priority); got != tt.valid {
			t.Errorf("ValidPriority(%q) = %v, want %v", tt.priority, got, tt.valid)
		}
	}
}

func TestUserJSONNeverContainsPassword(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "$2a$12$somebcrypthashvalue",
		Role:     models.RoleUser,
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}

	if strings.Contains(string(data), "bcrypthash") {
		t.Errorf("serialized user leaked the password hash: %s", data)
	}
	if strings.Contains(string(data), "password") {
		t.Errorf("serialized user contains a password field: %s", data)
	}
}

func TestUserIsAdmin(t *testing.T) {
	admin := models.User{Role: models.RoleAdmin}
	user := models.User{Role: models.RoleUser}

	if !admin.IsAdmin() {
		t.Error("expected admin role to report IsAdmin")
	}
	if user.IsAdmin() {
		t.Error("expected user role to not report IsAdmin")
	}
}
