package database

import (
	"context"
	"fmt"

	"papalote/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SampleProducts returns a small artisan catalogue for development.
func SampleProducts() []model.Product {
	return []model.Product{
		{ID: "alebrije-jaguar", Name: "Alebrije de jaguar", Description: "Tallado en copal y pintado a mano.", Price: 1250, Category: "Alebrijes", Maker: "Taller Jacobo y María Ángeles", State: "Oaxaca", Materials: []string{"madera de copal", "pintura acrílica"}},
		{ID: "alebrije-colibri", Name: "Alebrije colibrí", Description: "Pieza pequeña ideal para regalo.", Price: 480, Category: "Alebrijes", Maker: "Familia Xuana", State: "Oaxaca", Materials: []string{"madera de copal", "pintura acrílica"}},
		{ID: "talavera-plato", Name: "Plato de Talavera poblana", Description: "Plato decorativo con esmalte tradicional.", Price: 890, Category: "Cerámica", Maker: "Talavera Uriarte", State: "Puebla", Materials: []string{"barro", "esmalte"}},
		{ID: "talavera-jarron", Name: "Jarrón de Talavera", Description: "Jarrón azul cobalto pintado a mano.", Price: 2150, Category: "Cerámica", Maker: "Talavera Uriarte", State: "Puebla", Materials: []string{"barro", "esmalte", "cobalto"}},
		{ID: "barro-negro-jarra", Name: "Jarra de barro negro", Description: "Bruñida con cuarzo en San Bartolo Coyotepec.", Price: 650, Category: "Cerámica", Maker: "Doña Rosa", State: "Oaxaca", Materials: []string{"barro negro"}},
		{ID: "huipil-chiapas", Name: "Huipil bordado", Description: "Bordado a mano en telar de cintura.", Price: 1800, Category: "Textiles", Maker: "Cooperativa Jolom Mayaetik", State: "Chiapas", Materials: []string{"algodón"}},
		{ID: "rebozo-seda", Name: "Rebozo de seda", Description: "Rebozo jaspeado con rapacejo anudado.", Price: 2400, Category: "Textiles", Maker: "Rebozos de Tenancingo", State: "Estado de México", Materials: []string{"seda"}},
		{ID: "mascara-purepecha", Name: "Máscara de Michoacán", Description: "Máscara ceremonial de danza.", Price: 950, Category: "Máscaras", Maker: "Taller Purépecha", State: "Michoacán", Materials: []string{"madera", "pintura natural"}},
		{ID: "cobre-olla", Name: "Olla de cobre martillado", Description: "Cobre trabajado a martillo en Santa Clara.", Price: 1350, Category: "Metalistería", Maker: "Taller del Cobre", State: "Michoacán", Materials: []string{"cobre"}},
		{ID: "arbol-vida", Name: "Árbol de la vida", Description: "Escultura policromada de Metepec.", Price: 3200, Category: "Cerámica", Maker: "Familia Soteno", State: "Estado de México", Materials: []string{"barro", "pintura acrílica"}},
		{ID: "canasta-palma", Name: "Canasta de palma", Description: "Tejida a mano, ideal para el mercado.", Price: 320, Category: "Cestería", Maker: "Tejedoras de la Mixteca", State: "Oaxaca", Materials: []string{"palma"}},
		{ID: "plata-aretes", Name: "Aretes de plata", Description: "Filigrana de plata .925.", Price: 780, Category: "Joyería", Maker: "Plateros de Taxco", State: "Guerrero", Materials: []string{"plata"}},
	}
}

// SeedProducts inserts products, updating any that already exist.
func SeedProducts(ctx context.Context, pool *pgxpool.Pool, products []model.Product, logger zerolog.Logger) error {
	query := `
		INSERT INTO products (id, name, description, price, category, maker, state, materials)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			maker = EXCLUDED.maker,
			state = EXCLUDED.state,
			materials = EXCLUDED.materials
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Description, p.Price, p.Category, p.Maker, p.State, p.Materials)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to seed product")
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	logger.Info().Int("count", len(products)).Msg("products seeded")
	return nil
}
