package features

// Feature vector layout. The regressor is trained against exactly this
// ordering; changing it invalidates every persisted artifact.
const (
	IdxBrand = iota
	IdxModelYear
	IdxMileage
	IdxFuelType
	IdxTransmission
	IdxCarAge
	IdxHasAccident
	IdxIsCleanTitle
	IdxHorsepower
	IdxEngineSize

	NumFeatures
)

// Defaults applied when a request omits an optional field.
const (
	DefaultHasAccident  = 0
	DefaultIsCleanTitle = 1
	DefaultHorsepower   = 250.0
	DefaultEngineSize   = 3.0
)

// Fallback labels for the image path when no form value accompanies the
// upload.
const (
	DefaultBrand        = "Toyota"
	DefaultFuelType     = "Gasoline"
	DefaultTransmission = "Automatic"
)

// CarInput is a fully resolved prediction input: every optional field has
// already been defaulted and placeholder estimates applied.
type CarInput struct {
	Brand        string  `json:"brand"`
	ModelYear    int     `json:"model_year"`
	Mileage      float64 `json:"mileage"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	HasAccident  int     `json:"has_accident"`
	IsCleanTitle int     `json:"is_clean_title"`
	Horsepower   float64 `json:"horsepower"`
	EngineSize   float64 `json:"engine_size"`
}
