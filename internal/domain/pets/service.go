package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-patients-service/internal/ports/auth"
	"pet-patients-service/internal/ports/directory"
)

var (
	ErrRequiredFields = errors.New("petName and owner are required")
	ErrInvalidGender  = errors.New("gender must be male or female")
	ErrNotFound       = errors.New("pet not found")
	ErrInactive       = errors.New("pet is inactive")
)

// OwnerNotFoundError nombra el email que el directorio no pudo confirmar.
type OwnerNotFoundError struct {
	Email string
}

func (e *OwnerNotFoundError) Error() string {
	return fmt.Sprintf("the owner %s is not a registered user", e.Email)
}

type Service struct {
	repo Repository
	dir  directory.Client
	now  func() time.Time
}

func NewService(repo Repository, dir directory.Client) *Service {
	return &Service{
		repo: repo,
		dir:  dir,
		now:  time.Now,
	}
}

type ListInput struct {
	Page  int
	Limit int
}

// PetPage es el resultado paginado de List.
type PetPage struct {
	CurrentPage int
	TotalPages  int
	TotalPets   int
	PetsPerPage int
	Pets        []Pet
}

// List devuelve solo fichas activas, más recientes primero. Si el
// requester tiene rol client, el resultado se restringe a sus propias
// fichas (owner == email del token); ese filtro por fila es el único
// mecanismo de multi-tenancy del servicio.
func (s *Service) List(ctx context.Context, in ListInput, requester auth.Claims) (PetPage, error) {
	page := in.Page
	if page <= 0 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}

	f := ListFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if requester.Role.Name == auth.RoleClient {
		f.Owner = requester.Email
	}

	items, total, err := s.repo.ListActive(ctx, f)
	if err != nil {
		return PetPage{}, err
	}

	return PetPage{
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalPets:   total,
		PetsPerPage: limit,
		Pets:        items,
	}, nil
}

// GetActive devuelve una ficha activa. Inactiva cuenta como not-found,
// no como un estado "gone" distinto.
func (s *Service) GetActive(ctx context.Context, id int64) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !p.IsActive {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

type CreateInput struct {
	Photo   string
	Name    string
	Species string
	Breed   string
	Age     *int
	Weight  *float64
	Gender  string
	Owner   string
}

// Create valida campos requeridos y la existencia del owner en el
// directorio antes de persistir. bearer es el Authorization del caller,
// reenviado al directorio.
func (s *Service) Create(ctx context.Context, in CreateInput, bearer string) (Pet, error) {
	name := strings.TrimSpace(in.Name)
	owner := strings.TrimSpace(in.Owner)
	if name == "" || owner == "" {
		return Pet{}, ErrRequiredFields
	}
	if !ValidGender(in.Gender) {
		return Pet{}, ErrInvalidGender
	}

	if !s.dir.UserExistsByEmail(ctx, owner, bearer) {
		return Pet{}, &OwnerNotFoundError{Email: owner}
	}

	now := s.now()
	p := Pet{
		Photo:     strings.TrimSpace(in.Photo),
		Name:      name,
		Species:   strings.TrimSpace(in.Species),
		Breed:     strings.TrimSpace(in.Breed),
		Age:       in.Age,
		Weight:    in.Weight,
		Gender:    Gender(in.Gender),
		IsActive:  true,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.Create(ctx, p)
}

// UpdateInput usa punteros para update parcial: nil = no tocar.
type UpdateInput struct {
	Photo   *string
	Name    *string
	Species *string
	Breed   *string
	Age     *int
	Weight  *float64
	Gender  *string
	Owner   *string
}

// Update mergea los campos enviados sobre la ficha actual.
//
// Asimetría heredada del comportamiento observado: un name/owner enviado
// pero vacío conserva el valor anterior en vez de rechazarse (create sí
// rechaza). El owner solo se re-valida contra el directorio cuando el
// nuevo valor difiere del actual.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, bearer string) (Pet, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !current.IsActive {
		return Pet{}, ErrInactive
	}

	merged := current

	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			merged.Name = v
		}
	}
	if in.Photo != nil {
		merged.Photo = strings.TrimSpace(*in.Photo)
	}
	if in.Species != nil {
		merged.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		merged.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		merged.Age = in.Age
	}
	if in.Weight != nil {
		merged.Weight = in.Weight
	}
	if in.Gender != nil {
		if !ValidGender(*in.Gender) {
			return Pet{}, ErrInvalidGender
		}
		merged.Gender = Gender(*in.Gender)
	}

	if in.Owner != nil {
		if v := strings.TrimSpace(*in.Owner); v != "" && v != current.Owner {
			if !s.dir.UserExistsByEmail(ctx, v, bearer) {
				return Pet{}, &OwnerNotFoundError{Email: v}
			}
			merged.Owner = v
		}
	}

	merged.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, merged); err != nil {
		return Pet{}, err
	}
	return merged, nil
}

// DeactivateSummary es lo mínimo que devuelve el soft-delete.
type DeactivateSummary struct {
	ID       int64
	Name     string
	IsActive bool
}

// Deactivate apaga la ficha (soft-delete). No existe hard delete ni
// camino de vuelta a activo.
func (s *Service) Deactivate(ctx context.Context, id int64) (DeactivateSummary, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DeactivateSummary{}, err
	}
	if !current.IsActive {
		return DeactivateSummary{}, ErrInactive
	}

	current.IsActive = false
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return DeactivateSummary{}, err
	}

	return DeactivateSummary{
		ID:       current.ID,
		Name:     current.Name,
		IsActive: current.IsActive,
	}, nil
}
