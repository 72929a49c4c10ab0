package router

import (
	"database/sql"
	"net/http"

	mem "pet-patients-service/internal/adapters/storage/memory"
	pg "pet-patients-service/internal/adapters/storage/postgres"
	"pet-patients-service/internal/domain/pets"
	"pet-patients-service/internal/domain/users"
	"pet-patients-service/internal/middleware"
	"pet-patients-service/internal/ports/auth"
	"pet-patients-service/internal/ports/directory"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Verifier  auth.TokenVerifier // nil = modo dev (identidad por headers X-Debug-*)
	Directory directory.Client

	// Opcional: si viene, usa Postgres. Si no, in-memory (dev/tests).
	DB *sql.DB
}

// rolePolicy es la única tabla de autorización del servicio: operación
// => roles permitidos. GET de listado incluye client para que el filtro
// por owner (multi-tenancy por fila) sea alcanzable.
func rolePolicy() middleware.RolePolicy {
	return middleware.RolePolicy{
		pets.OpList:   {auth.RoleAdmin, auth.RoleVeterinarian, auth.RoleReceptionist, auth.RoleClient},
		pets.OpCreate: {auth.RoleAdmin, auth.RoleReceptionist},
		pets.OpUpdate: {auth.RoleAdmin, auth.RoleReceptionist},
		pets.OpDelete: {auth.RoleAdmin, auth.RoleReceptionist},
	}
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"API funcionando correctamente"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var petRepo pets.Repository
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
	}

	petsSvc := pets.NewService(petRepo, opts.Directory)
	policy := rolePolicy()

	// Todo lo de negocio va detrás del token.
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(opts.Verifier))

		gr.Route("/api", func(api chi.Router) {
			api.Route("/patients", func(pr chi.Router) {
				pets.RegisterRoutes(pr, petsSvc, policy)
			})
			users.RegisterRoutes(api, opts.Directory)
		})
	})

	return r
}
