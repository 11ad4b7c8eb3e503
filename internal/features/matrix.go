package features

import (
	"carprice/internal/dataset"
)

// FitEncoders fits the three category encoders over the cleaned records,
// codes assigned in first-seen order. Called exactly once per training run.
func FitEncoders(records []dataset.Record) (brand, fuelType, transmission *LabelEncoder) {
	brand = NewLabelEncoder()
	fuelType = NewLabelEncoder()
	transmission = NewLabelEncoder()

	for _, r := range records {
		brand.Fit([]string{r.Brand})
		fuelType.Fit([]string{r.FuelType})
		transmission.Fit([]string{r.Transmission})
	}
	return brand, fuelType, transmission
}

// BuildMatrix assembles the training feature matrix and price target from
// cleaned records using the fitted encoders.
func BuildMatrix(records []dataset.Record, a *Assembler) (X [][]float64, y []float64) {
	X = make([][]float64, len(records))
	y = make([]float64, len(records))

	for i, r := range records {
		X[i] = a.Assemble(CarInput{
			Brand:        r.Brand,
			ModelYear:    r.ModelYear,
			Mileage:      r.Mileage,
			FuelType:     r.FuelType,
			Transmission: r.Transmission,
			HasAccident:  r.HasAccident(),
			IsCleanTitle: r.IsCleanTitle(),
			Horsepower:   r.Horsepower,
			EngineSize:   r.EngineSize,
		})
		y[i] = r.Price
	}
	return X, y
}
