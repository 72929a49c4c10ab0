package pets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"pet-patients-service/internal/ports/auth"
	"pet-patients-service/internal/ports/directory"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	nextID int64
	byID   map[int64]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{nextID: 1, byID: map[int64]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) (Pet, error) {
	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = p
	return p, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListActive(ctx context.Context, f ListFilter) ([]Pet, int, error) {
	matched := make([]Pet, 0)
	// recorrido por ID ascendente para orden determinista
	for id := int64(1); id < r.nextID; id++ {
		p, ok := r.byID[id]
		if !ok || !p.IsActive {
			continue
		}
		if f.Owner != "" && p.Owner != f.Owner {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return matched[start:end], total, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

// -------------------------
// Test directory
// -------------------------

type testDirectory struct {
	known map[string]bool
	calls int
}

func newTestDirectory(emails ...string) *testDirectory {
	known := map[string]bool{}
	for _, e := range emails {
		known[e] = true
	}
	return &testDirectory{known: known}
}

func (d *testDirectory) ListUsersRaw(ctx context.Context, page, limit int, bearer string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (d *testDirectory) ListUsersByRole(ctx context.Context, role, bearer string) ([]directory.User, error) {
	return nil, nil
}

func (d *testDirectory) UserExistsByEmail(ctx context.Context, email, bearer string) bool {
	d.calls++
	return d.known[email]
}

// -------------------------
// Tests
// -------------------------

func newTestService(dir *testDirectory) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, dir)
	return svc, repo
}

func TestService_Create_SetsActiveAndTimestamps(t *testing.T) {
	svc, _ := newTestService(newTestDirectory("a@x.com"))

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), CreateInput{
		Name:    "Rex",
		Species: "dog",
		Owner:   "a@x.com",
	}, "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if !p.IsActive {
		t.Fatalf("expected new pet to be active")
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RequiredFields(t *testing.T) {
	svc, repo := newTestService(newTestDirectory("a@x.com"))

	if _, err := svc.Create(context.Background(), CreateInput{Owner: "a@x.com"}, ""); err != ErrRequiredFields {
		t.Fatalf("expected ErrRequiredFields without name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Rex"}, ""); err != ErrRequiredFields {
		t.Fatalf("expected ErrRequiredFields without owner, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("rejected create must not persist")
	}
}

func TestService_Create_UnknownOwner(t *testing.T) {
	svc, repo := newTestService(newTestDirectory("a@x.com"))

	_, err := svc.Create(context.Background(), CreateInput{
		Name:  "Rex",
		Owner: "ghost@x.com",
	}, "")

	var ownerErr *OwnerNotFoundError
	if !errors.As(err, &ownerErr) {
		t.Fatalf("expected OwnerNotFoundError, got %v", err)
	}
	if ownerErr.Email != "ghost@x.com" {
		t.Fatalf("expected error naming the email, got %q", ownerErr.Email)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("rejected create must not persist")
	}
}

func TestService_Update_PartialMerge(t *testing.T) {
	svc, _ := newTestService(newTestDirectory("a@x.com"))

	created, err := svc.Create(context.Background(), CreateInput{
		Name:    "Rex",
		Species: "dog",
		Owner:   "a@x.com",
	}, "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	age := 3
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Age: &age}, "")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated.Name != "Rex" || updated.Species != "dog" || updated.Owner != "a@x.com" {
		t.Fatalf("partial update touched untouched fields: %#v", updated)
	}
	if updated.Age == nil || *updated.Age != 3 {
		t.Fatalf("expected age=3, got %#v", updated.Age)
	}

	// name vacío conserva el valor anterior (asimetría observada vs create)
	empty := ""
	updated, err = svc.Update(context.Background(), created.ID, UpdateInput{Name: &empty}, "")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "Rex" {
		t.Fatalf("empty name must keep previous value, got %q", updated.Name)
	}
}

func TestService_Update_OwnerRevalidatedOnlyOnChange(t *testing.T) {
	dir := newTestDirectory("a@x.com", "b@x.com")
	svc, _ := newTestService(dir)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Rex", Owner: "a@x.com"}, "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	dir.calls = 0

	// mismo owner: sin round-trip al directorio
	same := "a@x.com"
	if _, err := svc.Update(context.Background(), created.ID, UpdateInput{Owner: &same}, ""); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if dir.calls != 0 {
		t.Fatalf("expected no directory call for unchanged owner, got %d", dir.calls)
	}

	// owner distinto: revalida
	other := "b@x.com"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Owner: &other}, "")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if dir.calls != 1 {
		t.Fatalf("expected 1 directory call, got %d", dir.calls)
	}
	if updated.Owner != "b@x.com" {
		t.Fatalf("expected owner reassigned, got %q", updated.Owner)
	}

	// owner desconocido: rechaza y no persiste
	ghost := "ghost@x.com"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Owner: &ghost}, "")
	var ownerErr *OwnerNotFoundError
	if !errors.As(err, &ownerErr) {
		t.Fatalf("expected OwnerNotFoundError, got %v", err)
	}
	current, _ := svc.GetActive(context.Background(), created.ID)
	if current.Owner != "b@x.com" {
		t.Fatalf("rejected owner change must not persist, got %q", current.Owner)
	}
}

func TestService_Deactivate_OneWay(t *testing.T) {
	svc, repo := newTestService(newTestDirectory("a@x.com"))

	created, err := svc.Create(context.Background(), CreateInput{Name: "Rex", Owner: "a@x.com"}, "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	summary, err := svc.Deactivate(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if summary.IsActive || summary.ID != created.ID || summary.Name != "Rex" {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	// segundo soft-delete: conflicto, no 404 ni éxito silencioso
	if _, err := svc.Deactivate(context.Background(), created.ID); err != ErrInactive {
		t.Fatalf("expected ErrInactive, got %v", err)
	}

	// inactivo tampoco se actualiza
	age := 9
	if _, err := svc.Update(context.Background(), created.ID, UpdateInput{Age: &age}, ""); err != ErrInactive {
		t.Fatalf("expected ErrInactive on update, got %v", err)
	}

	// y sigue inactivo en el store
	if repo.byID[created.ID].IsActive {
		t.Fatalf("pet reactivated")
	}
}

func TestService_GetActive_InactiveIsNotFound(t *testing.T) {
	svc, _ := newTestService(newTestDirectory("a@x.com"))

	created, _ := svc.Create(context.Background(), CreateInput{Name: "Rex", Owner: "a@x.com"}, "")
	if _, err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	if _, err := svc.GetActive(context.Background(), created.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for inactive pet, got %v", err)
	}
	if _, err := svc.GetActive(context.Background(), 999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing pet, got %v", err)
	}
}

// brokenRepo simula una base caída: todo devuelve error de transporte.
type brokenRepo struct {
	err error
}

func (r *brokenRepo) Create(ctx context.Context, p Pet) (Pet, error) { return Pet{}, r.err }
func (r *brokenRepo) GetByID(ctx context.Context, id int64) (Pet, error) {
	return Pet{}, r.err
}
func (r *brokenRepo) ListActive(ctx context.Context, f ListFilter) ([]Pet, int, error) {
	return nil, 0, r.err
}
func (r *brokenRepo) Update(ctx context.Context, p Pet) error { return r.err }

func TestService_RepoFailureIsNotNotFound(t *testing.T) {
	errDown := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	svc := NewService(&brokenRepo{err: errDown}, newTestDirectory("a@x.com"))

	// una caída de la base no puede responderse como "Pet not found."
	if _, err := svc.GetActive(context.Background(), 1); !errors.Is(err, errDown) || errors.Is(err, ErrNotFound) {
		t.Fatalf("GetActive must surface the repo error, got %v", err)
	}

	age := 3
	if _, err := svc.Update(context.Background(), 1, UpdateInput{Age: &age}, ""); !errors.Is(err, errDown) || errors.Is(err, ErrNotFound) {
		t.Fatalf("Update must surface the repo error, got %v", err)
	}

	if _, err := svc.Deactivate(context.Background(), 1); !errors.Is(err, errDown) || errors.Is(err, ErrNotFound) {
		t.Fatalf("Deactivate must surface the repo error, got %v", err)
	}
}

func TestService_List_PaginationMath(t *testing.T) {
	svc, _ := newTestService(newTestDirectory("a@x.com"))
	staff := auth.Claims{UserID: 2, Email: "recep@clinic.com", Role: auth.Role{Name: auth.RoleReceptionist}}

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(context.Background(), CreateInput{
			Name:  fmt.Sprintf("pet-%02d", i),
			Owner: "a@x.com",
		}, ""); err != nil {
			t.Fatalf("Create #%d error: %v", i, err)
		}
	}

	page, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 10}, staff)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.TotalPets != 25 || page.TotalPages != 3 || page.PetsPerPage != 10 || len(page.Pets) != 10 {
		t.Fatalf("unexpected page 1: total=%d pages=%d len=%d", page.TotalPets, page.TotalPages, len(page.Pets))
	}

	page, err = svc.List(context.Background(), ListInput{Page: 3, Limit: 10}, staff)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.CurrentPage != 3 || len(page.Pets) != 5 {
		t.Fatalf("expected 5 pets on page 3, got %d", len(page.Pets))
	}
}

func TestService_List_ClientRowFilter(t *testing.T) {
	svc, _ := newTestService(newTestDirectory("a@x.com", "b@x.com"))

	_, _ = svc.Create(context.Background(), CreateInput{Name: "Rex", Owner: "a@x.com"}, "")
	_, _ = svc.Create(context.Background(), CreateInput{Name: "Milo", Owner: "a@x.com"}, "")
	_, _ = svc.Create(context.Background(), CreateInput{Name: "Luna", Owner: "b@x.com"}, "")

	client := auth.Claims{UserID: 3, Email: "a@x.com", Role: auth.Role{Name: auth.RoleClient}}
	page, err := svc.List(context.Background(), ListInput{}, client)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.TotalPets != 2 {
		t.Fatalf("expected 2 own pets, got %d", page.TotalPets)
	}
	for _, p := range page.Pets {
		if p.Owner != "a@x.com" {
			t.Fatalf("client saw foreign pet: %#v", p)
		}
	}

	staff := auth.Claims{UserID: 1, Email: "admin@clinic.com", Role: auth.Role{Name: auth.RoleAdmin}}
	page, err = svc.List(context.Background(), ListInput{}, staff)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.TotalPets != 3 {
		t.Fatalf("expected 3 pets for staff, got %d", page.TotalPets)
	}
}
