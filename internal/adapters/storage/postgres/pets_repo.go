package postgres

import (
	"context"
	"database/sql"

	"pet-patients-service/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	pet_id, photo, pet_name, species, breed,
	age, weight, gender, is_active, owner,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (
			photo, pet_name, species, breed,
			age, weight, gender, is_active, owner,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING pet_id
	`,
		nullString(p.Photo),
		p.Name,
		nullString(p.Species),
		nullString(p.Breed),
		nullInt(p.Age),
		nullFloat(p.Weight),
		nullString(string(p.Gender)),
		p.IsActive,
		p.Owner,
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err := row.Scan(&p.ID); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE pet_id = $1
	`, id)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListActive(ctx context.Context, f pets.ListFilter) ([]pets.Pet, int, error) {
	// owner = '' desactiva el filtro por fila (roles de staff)
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM pets
		WHERE is_active AND ($1::text = '' OR owner = $1::text)
	`, f.Owner).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE is_active AND ($1::text = '' OR owner = $1::text)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, f.Owner, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}

	return out, total, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			photo = $2,
			pet_name = $3,
			species = $4,
			breed = $5,
			age = $6,
			weight = $7,
			gender = $8,
			is_active = $9,
			owner = $10,
			updated_at = $11
		WHERE pet_id = $1
	`,
		p.ID,
		nullString(p.Photo),
		p.Name,
		nullString(p.Species),
		nullString(p.Breed),
		nullInt(p.Age),
		nullFloat(p.Weight),
		nullString(string(p.Gender)),
		p.IsActive,
		p.Owner,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		photo   sql.NullString
		species sql.NullString
		breed   sql.NullString
		age     sql.NullInt64
		weight  sql.NullFloat64
		gender  sql.NullString
	)

	if err := row.Scan(
		&p.ID,
		&photo,
		&p.Name,
		&species,
		&breed,
		&age,
		&weight,
		&gender,
		&p.IsActive,
		&p.Owner,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Photo = photo.String
	p.Species = species.String
	p.Breed = breed.String
	p.Gender = pets.Gender(gender.String)
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if weight.Valid {
		v := weight.Float64
		p.Weight = &v
	}

	return p, nil
}

// columnas opcionales: vacío se guarda como NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
