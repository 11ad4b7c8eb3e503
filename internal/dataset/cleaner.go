package dataset

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Sentinel values observed in the source data. An absent accident field
// means no accident was reported; an absent title field means the title
// is clean.
const (
	NoAccident    = "None reported"
	CleanTitleYes = "Yes"
)

var (
	// horsepowerRegexp captures the "300.0HP" fragment of an engine description
	horsepowerRegexp = regexp.MustCompile(`(\d+\.?\d*)HP`)
	// displacementRegexp captures the "3.0L" fragment of an engine description
	displacementRegexp = regexp.MustCompile(`(\d+\.?\d*)L`)
)

// Record is a cleaned training row. Price is already converted into the
// target currency unit. Horsepower and EngineSize are NaN when the engine
// description yielded no match; Clean fills them with the column median.
type Record struct {
	Brand        string
	ModelYear    int
	Mileage      float64
	FuelType     string
	Transmission string
	Accident     string
	CleanTitle   string
	Horsepower   float64
	EngineSize   float64
	Price        float64
}

// HasAccident derives the accident flag from the accident text.
func (r Record) HasAccident() int {
	if r.Accident == NoAccident {
		return 0
	}
	return 1
}

// IsCleanTitle derives the clean-title flag from the title text.
func (r Record) IsCleanTitle() int {
	if r.CleanTitle == CleanTitleYes {
		return 1
	}
	return 0
}

// CleanResult carries the cleaned rows plus bookkeeping about what was
// repaired or dropped along the way.
type CleanResult struct {
	Records          []Record
	Dropped          int // rows excluded for unparseable price, mileage or model year
	FilledFuel       int
	FilledHorsepower int
	FilledEngineSize int
}

// Clean converts raw rows into typed records. Rows whose price, mileage or
// model year cannot be parsed are dropped, not reported as errors; training
// proceeds on the reduced set. Missing fuel types are filled with the most
// frequent observed value, missing accident/title text with the sentinels,
// and missing horsepower/displacement with the column medians.
func Clean(raw []RawRecord, currencyRate float64) CleanResult {
	res := CleanResult{Records: make([]Record, 0, len(raw))}

	fuelMode := modeOf(raw, func(r RawRecord) string { return r.FuelType })

	for _, row := range raw {
		price, okPrice := ParsePrice(row.Price)
		mileage, okMileage := ParseMileage(row.Mileage)
		year, errYear := strconv.Atoi(row.ModelYear)

		if !okPrice || !okMileage || errYear != nil {
			res.Dropped++
			continue
		}

		rec := Record{
			Brand:        row.Brand,
			ModelYear:    year,
			Mileage:      mileage,
			FuelType:     row.FuelType,
			Transmission: row.Transmission,
			Accident:     row.Accident,
			CleanTitle:   row.CleanTitle,
			Horsepower:   extractNumber(horsepowerRegexp, row.Engine),
			EngineSize:   extractNumber(displacementRegexp, row.Engine),
			Price:        price * currencyRate,
		}

		if rec.FuelType == "" {
			rec.FuelType = fuelMode
			res.FilledFuel++
		}
		if rec.Accident == "" {
			rec.Accident = NoAccident
		}
		if rec.CleanTitle == "" {
			rec.CleanTitle = CleanTitleYes
		}

		res.Records = append(res.Records, rec)
	}

	res.FilledHorsepower = fillMedian(res.Records, func(r *Record) *float64 { return &r.Horsepower })
	res.FilledEngineSize = fillMedian(res.Records, func(r *Record) *float64 { return &r.EngineSize })

	return res
}

// ParsePrice strips the currency symbol and thousands separators from a
// price string like "$42,000" and parses the remainder.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseMileage strips the " mi." suffix and thousands separators from a
// mileage string like "51,000 mi." and parses the remainder.
func ParseMileage(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "mi.")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractNumber returns the first captured number or NaN when the pattern
// does not match.
func extractNumber(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// modeOf returns the most frequent non-empty value of the selected field.
func modeOf(raw []RawRecord, get func(RawRecord) string) string {
	counts := make(map[string]int)
	for _, r := range raw {
		if v := get(r); v != "" {
			counts[v]++
		}
	}

	mode, best := "", 0
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode
}

// fillMedian replaces NaN values of the selected column with the median of
// the parsed values, returning how many cells were filled.
func fillMedian(records []Record, get func(*Record) *float64) int {
	var values []float64
	for i := range records {
		if v := *get(&records[i]); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)

	med := values[len(values)/2]
	if len(values)%2 == 0 {
		med = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}

	filled := 0
	for i := range records {
		p := get(&records[i])
		if math.IsNaN(*p) {
			*p = med
			filled++
		}
	}
	return filled
}
