package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssembler() *Assembler {
	brand := NewLabelEncoder()
	brand.Fit([]string{"Toyota", "BMW"})
	fuel := NewLabelEncoder()
	fuel.Fit([]string{"Gasoline", "Diesel"})
	trans := NewLabelEncoder()
	trans.Fit([]string{"Automatic", "Manual"})

	return &Assembler{
		Brand:         brand,
		FuelType:      fuel,
		Transmission:  trans,
		ReferenceYear: 2025,
	}
}

func TestAssembleVectorLayout(t *testing.T) {
	a := testAssembler()

	v := a.Assemble(CarInput{
		Brand:        "BMW",
		ModelYear:    2020,
		Mileage:      30000,
		FuelType:     "Diesel",
		Transmission: "Manual",
		HasAccident:  1,
		IsCleanTitle: 0,
		Horsepower:   300,
		EngineSize:   3.0,
	})

	require.Len(t, v, NumFeatures)
	assert.Equal(t, 1.0, v[IdxBrand])
	assert.Equal(t, 2020.0, v[IdxModelYear])
	assert.Equal(t, 30000.0, v[IdxMileage])
	assert.Equal(t, 1.0, v[IdxFuelType])
	assert.Equal(t, 1.0, v[IdxTransmission])
	assert.Equal(t, 5.0, v[IdxCarAge])
	assert.Equal(t, 1.0, v[IdxHasAccident])
	assert.Equal(t, 0.0, v[IdxIsCleanTitle])
	assert.Equal(t, 300.0, v[IdxHorsepower])
	assert.Equal(t, 3.0, v[IdxEngineSize])
}

func TestAssembleUnknownLabelsUseFallback(t *testing.T) {
	a := testAssembler()

	v := a.Assemble(CarInput{
		Brand:        "Koenigsegg",
		ModelYear:    2022,
		FuelType:     "Hydrogen",
		Transmission: "Sequential",
	})

	assert.Equal(t, float64(FallbackCode), v[IdxBrand])
	assert.Equal(t, float64(FallbackCode), v[IdxFuelType])
	assert.Equal(t, float64(FallbackCode), v[IdxTransmission])
}

func TestCarAge(t *testing.T) {
	a := testAssembler()
	assert.Equal(t, 5, a.CarAge(2020))
	assert.Equal(t, 0, a.CarAge(2025))
	assert.Equal(t, -1, a.CarAge(2026))
}
