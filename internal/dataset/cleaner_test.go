package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$42,000", 42000, true},
		{"$1,250,000", 1250000, true},
		{"15000", 15000, true},
		{"$950.50", 950.50, true},
		{"", 0, false},
		{"$", 0, false},
		{"not a price", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"51,000 mi.", 51000, true},
		{"7 mi.", 7, true},
		{"120000", 120000, true},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMileage(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestCleanDropsUnparseableRows(t *testing.T) {
	raw := []RawRecord{
		{Brand: "Toyota", ModelYear: "2020", Mileage: "30,000 mi.", FuelType: "Gasoline", Engine: "200.0HP 2.5L", Transmission: "Automatic", Price: "$25,000"},
		{Brand: "BMW", ModelYear: "bad", Mileage: "30,000 mi.", FuelType: "Gasoline", Engine: "300.0HP 3.0L", Transmission: "Automatic", Price: "$40,000"},
		{Brand: "Audi", ModelYear: "2019", Mileage: "n/a", FuelType: "Gasoline", Engine: "250.0HP 2.0L", Transmission: "Automatic", Price: "$35,000"},
		{Brand: "Ford", ModelYear: "2018", Mileage: "60,000 mi.", FuelType: "Gasoline", Engine: "180.0HP 1.5L", Transmission: "Manual", Price: "missing"},
	}

	res := Clean(raw, 1)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 3, res.Dropped)
	assert.Equal(t, "Toyota", res.Records[0].Brand)
}

func TestCleanConvertsCurrency(t *testing.T) {
	raw := []RawRecord{
		{Brand: "Toyota", ModelYear: "2020", Mileage: "10,000 mi.", FuelType: "Gasoline", Engine: "200.0HP 2.5L", Transmission: "Automatic", Price: "$1,000"},
	}

	res := Clean(raw, 83)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 83000.0, res.Records[0].Price)
}

func TestCleanFillsMissingValues(t *testing.T) {
	raw := []RawRecord{
		{Brand: "Toyota", ModelYear: "2020", Mileage: "10,000 mi.", FuelType: "Gasoline", Engine: "200.0HP 2.0L", Transmission: "Automatic", Accident: "At least 1 accident or damage reported", CleanTitle: "Yes", Price: "$20,000"},
		{Brand: "Honda", ModelYear: "2019", Mileage: "20,000 mi.", FuelType: "Gasoline", Engine: "300.0HP 3.0L", Transmission: "Automatic", Price: "$18,000"},
		{Brand: "BMW", ModelYear: "2018", Mileage: "30,000 mi.", FuelType: "", Engine: "no specs", Transmission: "Manual", Price: "$30,000"},
	}

	res := Clean(raw, 1)
	require.Len(t, res.Records, 3)

	// Missing fuel type takes the most frequent observed value.
	assert.Equal(t, "Gasoline", res.Records[2].FuelType)
	assert.Equal(t, 1, res.FilledFuel)

	// Missing accident and title text take the sentinels.
	assert.Equal(t, NoAccident, res.Records[1].Accident)
	assert.Equal(t, CleanTitleYes, res.Records[1].CleanTitle)

	// Unmatched engine specs take the column medians.
	assert.Equal(t, 1, res.FilledHorsepower)
	assert.Equal(t, 1, res.FilledEngineSize)
	assert.Equal(t, 250.0, res.Records[2].Horsepower)
	assert.Equal(t, 2.5, res.Records[2].EngineSize)
}

func TestRecordFlags(t *testing.T) {
	assert.Equal(t, 0, Record{Accident: NoAccident}.HasAccident())
	assert.Equal(t, 1, Record{Accident: "At least 1 accident or damage reported"}.HasAccident())
	assert.Equal(t, 1, Record{CleanTitle: CleanTitleYes}.IsCleanTitle())
	assert.Equal(t, 0, Record{CleanTitle: "No"}.IsCleanTitle())
}

func TestReadHeaderLookup(t *testing.T) {
	csv := strings.Join([]string{
		"brand,model,model_year,milage,fuel_type,engine,transmission,ext_col,accident,clean_title,price",
		`Toyota,Camry,2020,"30,000 mi.",Gasoline,203.0HP 2.5L I4,Automatic,ignored,None reported,Yes,"$25,000"`,
	}, "\n")

	records, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Toyota", records[0].Brand)
	assert.Equal(t, "30,000 mi.", records[0].Mileage)
	assert.Equal(t, "$25,000", records[0].Price)
}

func TestReadMissingColumn(t *testing.T) {
	csv := "brand,model_year\nToyota,2020\n"
	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestExtractEngineSpecs(t *testing.T) {
	raw := []RawRecord{
		{Brand: "BMW", ModelYear: "2021", Mileage: "5,000 mi.", FuelType: "Gasoline", Engine: "335.0HP 3.0L Straight 6 Cylinder Engine", Transmission: "Automatic", Price: "$55,000"},
	}

	res := Clean(raw, 1)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 335.0, res.Records[0].Horsepower)
	assert.Equal(t, 3.0, res.Records[0].EngineSize)
}
