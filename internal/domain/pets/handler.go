package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-patients-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Operaciones de este módulo en la tabla de roles del router.
const (
	OpList   = "pets:list"
	OpCreate = "pets:create"
	OpUpdate = "pets:update"
	OpDelete = "pets:delete"
)

func RegisterRoutes(r chi.Router, svc *Service, policy middleware.RolePolicy) {
	r.Route("/pets", func(pr chi.Router) {
		pr.With(policy.Require(OpList)).Get("/", listPetsHandler(svc))
		pr.With(policy.Require(OpCreate)).Post("/", createPetHandler(svc))

		// Fetch individual: alcanza con estar autenticado.
		pr.Get("/{petID}", getPetHandler(svc))

		pr.With(policy.Require(OpUpdate)).Put("/{petID}", updatePetHandler(svc))
		pr.With(policy.Require(OpDelete)).Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Photo   string   `json:"photo"`
	PetName string   `json:"petName"`
	Species string   `json:"species"`
	Breed   string   `json:"breed"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	Gender  string   `json:"gender"`
	Owner   string   `json:"owner"`
}

// Punteros para PUT parcial: nil = no tocar.
type updatePetRequest struct {
	Photo   *string  `json:"photo"`
	PetName *string  `json:"petName"`
	Species *string  `json:"species"`
	Breed   *string  `json:"breed"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	Gender  *string  `json:"gender"`
	Owner   *string  `json:"owner"`
}

type petResponse struct {
	PetID     int64     `json:"petId"`
	Photo     string    `json:"photo,omitempty"`
	PetName   string    `json:"petName"`
	Species   string    `json:"species,omitempty"`
	Breed     string    `json:"breed,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	IsActive  bool      `json:"isActive"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listPetsResponse struct {
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalPets   int           `json:"totalPets"`
	PetsPerPage int           `json:"petsPerPage"`
	Pets        []petResponse `json:"pets"`
}

type petSummaryResponse struct {
	PetID    int64  `json:"petId"`
	PetName  string `json:"petName"`
	IsActive bool   `json:"isActive"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required.")
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		result, err := svc.List(r.Context(), ListInput{Page: page, Limit: limit}, claims)
		if err != nil {
			writeInternalError(w, "Error obtaining pets", err)
			return
		}

		out := listPetsResponse{
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			TotalPets:   result.TotalPets,
			PetsPerPage: result.PetsPerPage,
			Pets:        make([]petResponse, 0, len(result.Pets)),
		}
		for _, p := range result.Pets {
			out.Pets = append(out.Pets, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		p, err := svc.GetActive(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "Pet not found.")
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Photo:   req.Photo,
			Name:    req.PetName,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
			Gender:  req.Gender,
			Owner:   req.Owner,
		}, middleware.GetBearer(r.Context()))
		if err != nil {
			writePetError(w, err, "Error creating pet")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Pet successfully created",
			"pet":     toPetResponse(p),
		})
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		var req updatePetRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		p, err := svc.Update(r.Context(), id, UpdateInput{
			Photo:   req.Photo,
			Name:    req.PetName,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
			Gender:  req.Gender,
			Owner:   req.Owner,
		}, middleware.GetBearer(r.Context()))
		if err != nil {
			writePetError(w, err, "Error updating pet")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Pet successfully updated",
			"pet":     toPetResponse(p),
		})
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		summary, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			writePetError(w, err, "Error deleting pet")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Pet successfully deleted",
			"pet": petSummaryResponse{
				PetID:    summary.ID,
				PetName:  summary.Name,
				IsActive: summary.IsActive,
			},
		})
	}
}

func petID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid pet id.")
		return 0, false
	}
	return id, true
}

// writePetError mapea los errores del service a status codes.
func writePetError(w http.ResponseWriter, err error, internalMsg string) {
	var ownerErr *OwnerNotFoundError
	switch {
	case errors.Is(err, ErrRequiredFields):
		writeError(w, http.StatusBadRequest, "The petName and owner fields are required.")
	case errors.Is(err, ErrInvalidGender):
		writeError(w, http.StatusBadRequest, "Gender must be male or female.")
	case errors.As(err, &ownerErr):
		writeError(w, http.StatusBadRequest, "The owner "+ownerErr.Email+" is not a registered user.")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Pet not found.")
	case errors.Is(err, ErrInactive):
		writeError(w, http.StatusBadRequest, "Pet is inactive.")
	default:
		writeInternalError(w, internalMsg, err)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		PetID:     p.ID,
		Photo:     p.Photo,
		PetName:   p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Weight:    p.Weight,
		Gender:    string(p.Gender),
		IsActive:  p.IsActive,
		Owner:     p.Owner,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// En 500 el body incluye el detalle crudo del error, que los
// consumidores actuales ya esperan en el campo "error".
func writeInternalError(w http.ResponseWriter, message string, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
