package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"carprice/pkg/errors"
)

// RawRecord is one unparsed row of the listings CSV. All values are kept
// as strings; Clean is responsible for typing and filling them.
type RawRecord struct {
	Brand        string
	ModelYear    string
	Mileage      string
	FuelType     string
	Engine       string
	Transmission string
	Accident     string
	CleanTitle   string
	Price        string
}

// Columns the cleaner depends on. Extra columns in the file are ignored.
var requiredColumns = []string{
	"brand", "model_year", "milage", "fuel_type", "engine",
	"transmission", "accident", "clean_title", "price",
}

// Load reads the delimited dataset at path into raw records.
// The first row must be a header naming at least the required columns.
func Load(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV rows from r into raw records.
func Read(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as empty

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dataset header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, errors.Newf("dataset is missing required column %q", name)
		}
	}

	field := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read dataset row")
		}

		records = append(records, RawRecord{
			Brand:        field(row, "brand"),
			ModelYear:    field(row, "model_year"),
			Mileage:      field(row, "milage"),
			FuelType:     field(row, "fuel_type"),
			Engine:       field(row, "engine"),
			Transmission: field(row, "transmission"),
			Accident:     field(row, "accident"),
			CleanTitle:   field(row, "clean_title"),
			Price:        field(row, "price"),
		})
	}

	return records, nil
}
