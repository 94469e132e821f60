package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/mercatohq/mercato/config"
	"github.com/mercatohq/mercato/pkg/helpers"
)

// Seeds an admin account and a small demo catalog. Idempotent; safe to rerun.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("ADMIN_EMAIL", "admin@mercato.dev")
	password := envOr("ADMIN_PASSWORD", "admin123")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_email_verified)
		VALUES ($1, $2, 'Admin', 'User', 'admin', true)
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, email, hash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	categories := []struct {
		name, slug, description string
		sortOrder               int
	}{
		{"Electronics", "electronics", "Phones, laptops and accessories", 1},
		{"Clothing", "clothing", "Apparel for every season", 2},
		{"Home & Garden", "home-garden", "Everything for your home", 3},
	}
	categoryIDs := map[string]string{}
	for _, c := range categories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, description, is_active, sort_order)
			VALUES ($1, $2, $3, true, $4)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, c.name, c.slug, c.description, c.sortOrder).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed category %s: %v", c.slug, err)
		}
		categoryIDs[c.slug] = id
	}
	fmt.Printf("seeded %d categories\n", len(categories))

	products := []struct {
		name, slug, sku, description, category, brand string
		price                                         float64
		stock                                         int
		featured                                      bool
	}{
		{"Wireless Earbuds", "wireless-earbuds", "ELEC-0001", "Bluetooth 5.3 earbuds with charging case", "electronics", "Soundline", 59.99, 120, true},
		{"Mechanical Keyboard", "mechanical-keyboard", "ELEC-0002", "Hot-swappable 87-key mechanical keyboard", "electronics", "Keyforge", 89.00, 45, false},
		{"Cotton T-Shirt", "cotton-t-shirt", "CLTH-0001", "Heavyweight cotton tee, unisex fit", "clothing", "Plainwear", 19.50, 300, false},
		{"Denim Jacket", "denim-jacket", "CLTH-0002", "Classic denim jacket, stonewashed", "clothing", "Plainwear", 74.90, 60, true},
		{"Ceramic Planter", "ceramic-planter", "HOME-0001", "Glazed ceramic planter with drainage tray", "home-garden", "Greenhaus", 24.00, 80, false},
	}
	seeded := 0
	for _, p := range products {
		res, err := db.Exec(`
			INSERT INTO products (name, slug, sku, description, price, brand, stock, category_id, is_featured, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
			ON CONFLICT (sku) DO NOTHING
		`, p.name, p.slug, p.sku, p.description, p.price, p.brand, p.stock, categoryIDs[p.category], p.featured)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.sku, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
			if _, err := db.Exec(`
				UPDATE categories SET product_count = product_count + 1 WHERE id = $1
			`, categoryIDs[p.category]); err != nil {
				log.Fatalf("failed to bump category count: %v", err)
			}
		}
	}
	fmt.Printf("seeded %d new products\n", seeded)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
