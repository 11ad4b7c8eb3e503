package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carprice/internal/features"
	"carprice/pkg/errors"
)

// PredictionRecord is one journaled prediction row.
type PredictionRecord struct {
	ID           uuid.UUID `db:"id"`
	Source       string    `db:"source"`
	Brand        string    `db:"brand"`
	ModelYear    int       `db:"model_year"`
	Mileage      float64   `db:"mileage"`
	FuelType     string    `db:"fuel_type"`
	Transmission string    `db:"transmission"`
	HasAccident  int       `db:"has_accident"`
	IsCleanTitle int       `db:"is_clean_title"`
	Horsepower   float64   `db:"horsepower"`
	EngineSize   float64   `db:"engine_size"`
	Price        float64   `db:"price"`
	CreatedAt    time.Time `db:"created_at"`
}

// PredictionRepository journals served predictions.
type PredictionRepository struct {
	db DBTX
}

// NewPredictionRepository creates a repository over the given executor.
func NewPredictionRepository(db DBTX) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Record implements prediction.Journal.
func (r *PredictionRepository) Record(ctx context.Context, source string, in features.CarInput, price float64) error {
	rec := PredictionRecord{
		ID:           uuid.New(),
		Source:       source,
		Brand:        in.Brand,
		ModelYear:    in.ModelYear,
		Mileage:      in.Mileage,
		FuelType:     in.FuelType,
		Transmission: in.Transmission,
		HasAccident:  in.HasAccident,
		IsCleanTitle: in.IsCleanTitle,
		Horsepower:   in.Horsepower,
		EngineSize:   in.EngineSize,
		Price:        price,
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO predictions (
			id, source, brand, model_year, mileage, fuel_type, transmission,
			has_accident, is_clean_title, horsepower, engine_size, price, created_at
		) VALUES (
			:id, :source, :brand, :model_year, :mileage, :fuel_type, :transmission,
			:has_accident, :is_clean_title, :horsepower, :engine_size, :price, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return errors.Wrap(err, "failed to insert prediction record")
	}
	return nil
}
