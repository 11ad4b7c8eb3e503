package features

// Assembler turns resolved inputs into the ten-dimensional feature vector
// shared by training and inference. ReferenceYear is the year the training
// run fixed for car-age derivation; inference reuses it verbatim so the
// feature definition cannot drift between the two.
type Assembler struct {
	Brand         *LabelEncoder
	FuelType      *LabelEncoder
	Transmission  *LabelEncoder
	ReferenceYear int
}

// CarAge derives the age feature from a model year.
func (a *Assembler) CarAge(modelYear int) int {
	return a.ReferenceYear - modelYear
}

// Assemble produces the unscaled feature vector for one input.
func (a *Assembler) Assemble(in CarInput) []float64 {
	v := make([]float64, NumFeatures)
	v[IdxBrand] = float64(a.Brand.Encode(in.Brand))
	v[IdxModelYear] = float64(in.ModelYear)
	v[IdxMileage] = in.Mileage
	v[IdxFuelType] = float64(a.FuelType.Encode(in.FuelType))
	v[IdxTransmission] = float64(a.Transmission.Encode(in.Transmission))
	v[IdxCarAge] = float64(a.CarAge(in.ModelYear))
	v[IdxHasAccident] = float64(in.HasAccident)
	v[IdxIsCleanTitle] = float64(in.IsCleanTitle)
	v[IdxHorsepower] = in.Horsepower
	v[IdxEngineSize] = in.EngineSize
	return v
}
