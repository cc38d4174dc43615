package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@printforge.dev"
	password := "password123"
	name := "Demo Maker"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, points)
		VALUES ($1, $2, $3, 100)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	demoModels := []struct {
		name, description, category, material string
		minutes                               int
		price                                 float64
	}{
		{"Benchy", "Calibration boat, the classic first print", "calibration", "PLA", 95, 150},
		{"Phone Stand", "Adjustable desk stand for phones up to 7 inches", "gadgets", "PETG", 180, 320},
		{"Planter Pot", "Geometric succulent pot with drain holes", "home", "PLA", 240, 450},
	}
	for _, m := range demoModels {
		var mid string
		err := db.QueryRow(`
			INSERT INTO models (name, description, category, material_type, print_time_minutes,
				price, is_public, status, file_format, owner_id, owner_name)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, 'approved', 'stl', $7, $8)
			RETURNING id
		`, m.name, m.description, m.category, m.material, m.minutes, m.price, id, name).Scan(&mid)
		if err != nil {
			log.Fatalf("failed to seed model %q: %v", m.name, err)
		}
		fmt.Printf("seeded model: id=%s name=%s\n", mid, m.name)
	}

	if _, err := db.Exec(`UPDATE users SET models_count = $2 WHERE id = $1`, id, len(demoModels)); err != nil {
		log.Fatalf("failed to update seed counters: %v", err)
	}
}
