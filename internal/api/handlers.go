package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/services/prediction"
	"carprice/internal/vision"
	"carprice/pkg/errors"
	"carprice/pkg/logger"
)

// Handlers serves the prediction API endpoints.
type Handlers struct {
	service        *prediction.Service
	maxUploadBytes int64
	log            *logger.Logger
}

// NewHandlers creates the API handlers around the prediction service.
func NewHandlers(service *prediction.Service, maxUploadBytes int64) *Handlers {
	return &Handlers{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            logger.Get().With("component", "api"),
	}
}

// inputData echoes the resolved input back to the client, car age included.
type inputData struct {
	features.CarInput
	CarAge int `json:"car_age"`
}

type predictResponse struct {
	Success                 bool             `json:"success"`
	PredictedPrice          float64          `json:"predicted_price"`
	PredictedPriceFormatted string           `json:"predicted_price_formatted"`
	InputData               inputData        `json:"input_data"`
	EstimatedFeatures       *vision.Estimate `json:"estimated_features,omitempty"`
	Message                 string           `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// requiredFields are the form fields /predict cannot proceed without.
var requiredFields = []string{"brand", "model_year", "mileage", "fuel_type", "transmission"}

// HandleOptions serves the fitted category values for form dropdowns.
func (h *Handlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.service.Options())
}

// HandlePredict serves a price prediction from explicit form fields.
// Accepts form-encoded and JSON bodies.
func (h *Handlers) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	form, err := h.readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if missing := missingFields(form); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	in, err := resolveFormInput(form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred, err := h.service.PredictForm(r.Context(), in)
	if err != nil {
		// Prediction failures surface as client-visible errors, never a crash.
		h.log.Errorw("form prediction failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Success:                 true,
		PredictedPrice:          pred.Price,
		PredictedPriceFormatted: pred.Formatted,
		InputData:               inputData{CarInput: pred.Input, CarAge: pred.CarAge},
	})
}

// HandlePredictImage serves a price prediction from an uploaded car image,
// with any accompanying form fields taking precedence over the
// image-derived estimates.
func (h *Handlers) HandlePredictImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.service.ImageEnabled() {
		writeError(w, http.StatusServiceUnavailable, "image prediction is not available")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		metrics.ImageDecodeFailures.Inc()
		writeError(w, http.StatusBadRequest, errors.ErrNoImage.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		metrics.ImageDecodeFailures.Inc()
		writeError(w, http.StatusBadRequest, errors.ErrNoImage.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.ImageDecodeFailures.Inc()
		writeError(w, http.StatusBadRequest, errors.ErrEmptyImage.Error())
		return
	}

	img, err := vision.DecodeRGB(data)
	if err != nil {
		metrics.ImageDecodeFailures.Inc()
		switch {
		case errors.Is(err, errors.ErrEmptyImage):
			writeError(w, http.StatusBadRequest, errors.ErrEmptyImage.Error())
		default:
			writeError(w, http.StatusBadRequest, errors.ErrBadImage.Error())
		}
		return
	}

	ov, err := parseOverrides(r.MultipartForm.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred, err := h.service.PredictImage(r.Context(), img, ov)
	if err != nil {
		h.log.Errorw("image prediction failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Success:                 true,
		PredictedPrice:          pred.Price,
		PredictedPriceFormatted: pred.Formatted,
		InputData:               inputData{CarInput: pred.Input, CarAge: pred.CarAge},
		EstimatedFeatures:       &pred.Estimated,
		Message:                 "Price estimated from image analysis. Provide form fields for a more accurate prediction.",
	})
}

// readForm normalizes JSON and form-encoded bodies into a flat field map.
// Absent fields are absent keys, so missing-field detection stays exact.
func (h *Handlers) readForm(r *http.Request) (map[string]string, error) {
	form := make(map[string]string)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, errors.New("invalid JSON body")
		}
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				form[k] = s
				continue
			}
			form[k] = strings.Trim(string(v), `"`)
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form body")
	}
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			form[k] = vs[0]
		}
	}
	return form, nil
}

func missingFields(form map[string]string) []string {
	var missing []string
	for _, name := range requiredFields {
		if strings.TrimSpace(form[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// resolveFormInput types the raw fields and applies defaults for the
// optional ones.
func resolveFormInput(form map[string]string) (features.CarInput, error) {
	in := features.CarInput{
		Brand:        form["brand"],
		FuelType:     form["fuel_type"],
		Transmission: form["transmission"],
		HasAccident:  features.DefaultHasAccident,
		IsCleanTitle: features.DefaultIsCleanTitle,
		Horsepower:   features.DefaultHorsepower,
		EngineSize:   features.DefaultEngineSize,
	}

	year, err := strconv.Atoi(strings.TrimSpace(form["model_year"]))
	if err != nil {
		return in, errors.Newf("invalid value for model_year: %q", form["model_year"])
	}
	in.ModelYear = year

	mileage, err := strconv.ParseFloat(strings.TrimSpace(form["mileage"]), 64)
	if err != nil {
		return in, errors.Newf("invalid value for mileage: %q", form["mileage"])
	}
	in.Mileage = mileage

	if v, ok := form["has_accident"]; ok && v != "" {
		flag, err := parseFlag(v)
		if err != nil {
			return in, errors.Newf("invalid value for has_accident: %q", v)
		}
		in.HasAccident = flag
	}
	if v, ok := form["is_clean_title"]; ok && v != "" {
		flag, err := parseFlag(v)
		if err != nil {
			return in, errors.Newf("invalid value for is_clean_title: %q", v)
		}
		in.IsCleanTitle = flag
	}
	if v, ok := form["horsepower"]; ok && v != "" {
		hp, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return in, errors.Newf("invalid value for horsepower: %q", v)
		}
		in.Horsepower = hp
	}
	if v, ok := form["engine_size"]; ok && v != "" {
		size, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return in, errors.Newf("invalid value for engine_size: %q", v)
		}
		in.EngineSize = size
	}

	return in, nil
}

// parseOverrides converts the optional multipart fields of /predict_image
// into pointer-valued overrides; absent fields stay nil.
func parseOverrides(values map[string][]string) (prediction.Overrides, error) {
	var ov prediction.Overrides

	field := func(name string) (string, bool) {
		vs, ok := values[name]
		if !ok || len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
			return "", false
		}
		return strings.TrimSpace(vs[0]), true
	}

	if v, ok := field("brand"); ok {
		ov.Brand = &v
	}
	if v, ok := field("fuel_type"); ok {
		ov.FuelType = &v
	}
	if v, ok := field("transmission"); ok {
		ov.Transmission = &v
	}
	if v, ok := field("model_year"); ok {
		year, err := strconv.Atoi(v)
		if err != nil {
			return ov, errors.Newf("invalid value for model_year: %q", v)
		}
		ov.ModelYear = &year
	}
	if v, ok := field("mileage"); ok {
		mileage, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ov, errors.Newf("invalid value for mileage: %q", v)
		}
		ov.Mileage = &mileage
	}
	if v, ok := field("horsepower"); ok {
		hp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ov, errors.Newf("invalid value for horsepower: %q", v)
		}
		ov.Horsepower = &hp
	}
	if v, ok := field("engine_size"); ok {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ov, errors.Newf("invalid value for engine_size: %q", v)
		}
		ov.EngineSize = &size
	}
	if v, ok := field("has_accident"); ok {
		flag, err := parseFlag(v)
		if err != nil {
			return ov, errors.Newf("invalid value for has_accident: %q", v)
		}
		ov.HasAccident = &flag
	}
	if v, ok := field("is_clean_title"); ok {
		flag, err := parseFlag(v)
		if err != nil {
			return ov, errors.Newf("invalid value for is_clean_title: %q", v)
		}
		ov.IsCleanTitle = &flag
	}

	return ov, nil
}

func parseFlag(v string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return 1, nil
	case "0", "false", "no", "off":
		return 0, nil
	}
	return 0, errors.New("not a boolean flag")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
