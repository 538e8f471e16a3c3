package guard_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"epicrm/internal/auth"
	"epicrm/internal/guard"
	"epicrm/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Department{}, &models.Collaborator{}, &models.Client{}, &models.Contract{}, &models.Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, code := range models.AllDepartments() {
		if err := db.Create(&models.Department{Code: code}).Error; err != nil {
			t.Fatalf("seed department %s: %v", code, err)
		}
	}
	return db
}

func seedCollaborator(t *testing.T, db *gorm.DB, email string, code models.DepartmentCode) *models.Collaborator {
	t.Helper()
	var dept models.Department
	if err := db.First(&dept, "code = ?", code).Error; err != nil {
		t.Fatalf("department %s: %v", code, err)
	}
	col := models.Collaborator{FirstName: "Test", LastName: string(code), Email: email, PasswordHash: "x", DepartmentID: dept.ID}
	if err := db.Create(&col).Error; err != nil {
		t.Fatalf("seed collaborator: %v", err)
	}
	col.Department = &dept
	return &col
}

func TestAuthorizeInvalidToken(t *testing.T) {
	db := setupTestDB(t)
	g := guard.New(db, auth.NewTokenService([]byte("secret"), 30*time.Minute))

	if _, err := g.Authorize(context.Background(), "garbage", models.DeptManagement); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestAuthorizeUnknownSubject(t *testing.T) {
	db := setupTestDB(t)
	tokens := auth.NewTokenService([]byte("secret"), 30*time.Minute)
	g := guard.New(db, tokens)

	// Valid token for a collaborator that does not exist.
	tok, err := tokens.Issue(999)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := g.Authorize(context.Background(), tok, models.DeptManagement); !errors.Is(err, guard.ErrUnknownSubject) {
		t.Errorf("got %v, want ErrUnknownSubject", err)
	}
}

func TestAuthorizeForbidden(t *testing.T) {
	db := setupTestDB(t)
	tokens := auth.NewTokenService([]byte("secret"), 30*time.Minute)
	g := guard.New(db, tokens)

	sales := seedCollaborator(t, db, "sales@corp.fr", models.DeptSales)
	tok, err := tokens.Issue(sales.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = g.Authorize(context.Background(), tok, models.DeptManagement)
	var fe *guard.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want ForbiddenError", err)
	}
	// The refusal must name the allowed set.
	if !strings.Contains(fe.Error(), "management") {
		t.Errorf("message %q should enumerate the allowed departments", fe.Error())
	}
}

func TestAuthorizeAllowed(t *testing.T) {
	db := setupTestDB(t)
	tokens := auth.NewTokenService([]byte("secret"), 30*time.Minute)
	g := guard.New(db, tokens)

	mgr := seedCollaborator(t, db, "boss@corp.fr", models.DeptManagement)
	tok, err := tokens.Issue(mgr.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := g.Authorize(context.Background(), tok, models.DeptManagement)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if got.ID != mgr.ID {
		t.Errorf("got collaborator %d, want %d", got.ID, mgr.ID)
	}
	if !got.IsManagement() {
		t.Error("department should be loaded and resolve to management")
	}
}

func TestAuthorizeAnyDepartment(t *testing.T) {
	db := setupTestDB(t)
	tokens := auth.NewTokenService([]byte("secret"), 30*time.Minute)
	g := guard.New(db, tokens)

	sup := seedCollaborator(t, db, "support@corp.fr", models.DeptSupport)
	tok, err := tokens.Issue(sup.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// An empty allowlist means any authenticated collaborator.
	if _, err := g.Authorize(context.Background(), tok); err != nil {
		t.Errorf("authorize with empty allowlist: %v", err)
	}
}

func TestOwnershipRules(t *testing.T) {
	db := setupTestDB(t)
	salesA := seedCollaborator(t, db, "a@corp.fr", models.DeptSales)
	salesB := seedCollaborator(t, db, "b@corp.fr", models.DeptSales)
	mgr := seedCollaborator(t, db, "m@corp.fr", models.DeptManagement)
	support := seedCollaborator(t, db, "s@corp.fr", models.DeptSupport)

	client := &models.Client{CommercialContactID: salesA.ID}
	if !guard.CanManageClient(salesA, client) {
		t.Error("assigned commercial should manage their client")
	}
	if guard.CanManageClient(salesB, client) {
		t.Error("a peer commercial should not manage someone else's client")
	}
	if !guard.CanManageClient(mgr, client) {
		t.Error("management should bypass client ownership")
	}

	contract := &models.Contract{SalesContactID: salesA.ID}
	if !guard.CanManageContract(salesA, contract) || guard.CanManageContract(salesB, contract) {
		t.Error("contract ownership should bind to the sales contact")
	}
	if !guard.CanManageContract(mgr, contract) {
		t.Error("management should bypass contract ownership")
	}

	unassigned := &models.Event{}
	if guard.CanManageEvent(support, unassigned) {
		t.Error("support should not mutate an unassigned event")
	}
	if !guard.CanManageEvent(mgr, unassigned) {
		t.Error("management should mutate any event")
	}
	assigned := &models.Event{SupportContactID: &support.ID}
	if !guard.CanManageEvent(support, assigned) {
		t.Error("assigned support should manage their event")
	}
	other := &models.Event{SupportContactID: &salesA.ID}
	if guard.CanManageEvent(support, other) {
		t.Error("support should not manage an event assigned to someone else")
	}
}
