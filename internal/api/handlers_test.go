package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/internal/artifacts"
	"carprice/internal/features"
	"carprice/internal/ml"
	"carprice/internal/services/prediction"
)

type fixedRegressor struct {
	price float64
}

func (f *fixedRegressor) Fit(X [][]float64, y []float64) error { return nil }
func (f *fixedRegressor) Predict(x []float64) (float64, error) { return f.price, nil }
func (f *fixedRegressor) Name() string                         { return "fixed" }

type stubExtractor struct{}

func (s *stubExtractor) Extract(img image.Image) ([]float64, error) {
	vec := make([]float64, 100)
	for i := range vec {
		vec[i] = 0.05 * float64(i)
	}
	return vec, nil
}

func testService(t *testing.T, withExtractor bool) *prediction.Service {
	t.Helper()

	brand := features.NewLabelEncoder()
	brand.Fit([]string{"Toyota", "BMW"})
	fuel := features.NewLabelEncoder()
	fuel.Fit([]string{"Gasoline", "Diesel"})
	trans := features.NewLabelEncoder()
	trans.Fit([]string{"Automatic", "Manual"})

	scaler := &features.StandardScaler{
		Mean: make([]float64, features.NumFeatures),
		Std:  make([]float64, features.NumFeatures),
	}
	for i := range scaler.Std {
		scaler.Std[i] = 1
	}

	bundle := &artifacts.Bundle{
		Model:  &fixedRegressor{price: 99000},
		Scaler: scaler,
		Encoders: artifacts.Encoders{
			Brand:        brand,
			FuelType:     fuel,
			Transmission: trans,
		},
		Mappings: artifacts.Mappings{
			Brands:         brand.Classes,
			FuelTypes:      fuel.Classes,
			Transmissions:  trans.Classes,
			ReferenceYear:  2025,
			CurrencySymbol: "$",
			BestModel:      "fixed",
			Scores:         map[string]ml.Score{},
		},
	}

	if withExtractor {
		return prediction.NewService(bundle, &stubExtractor{}, nil, nil)
	}
	return prediction.NewService(bundle, nil, nil, nil)
}

func testHandlers(t *testing.T, withExtractor bool) *Handlers {
	return NewHandlers(testService(t, withExtractor), 10<<20)
}

func postForm(h http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validForm() url.Values {
	return url.Values{
		"brand":        {"Toyota"},
		"model_year":   {"2020"},
		"mileage":      {"30000"},
		"fuel_type":    {"Gasoline"},
		"transmission": {"Automatic"},
	}
}

func TestHandlePredictSuccess(t *testing.T) {
	h := testHandlers(t, false)

	w := postForm(h.HandlePredict, validForm())
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 99000.0, body["predicted_price"])
	assert.Equal(t, "$99,000.00", body["predicted_price_formatted"])

	input := body["input_data"].(map[string]interface{})
	assert.Equal(t, "Toyota", input["brand"])
	assert.Equal(t, 5.0, input["car_age"])
	assert.Equal(t, 2020.0, input["model_year"])
}

func TestHandlePredictMissingFields(t *testing.T) {
	h := testHandlers(t, false)

	w := postForm(h.HandlePredict, url.Values{"brand": {"Toyota"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	msg := body["error"].(string)
	assert.Contains(t, msg, "missing required fields")
	for _, field := range []string{"model_year", "mileage", "fuel_type", "transmission"} {
		assert.Contains(t, msg, field)
	}
	assert.NotContains(t, msg, "brand")
}

func TestHandlePredictInvalidNumber(t *testing.T) {
	h := testHandlers(t, false)

	form := validForm()
	form.Set("model_year", "twenty twenty")
	w := postForm(h.HandlePredict, form)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"].(string), "model_year")
}

func TestHandlePredictJSONBody(t *testing.T) {
	h := testHandlers(t, false)

	payload := `{"brand":"BMW","model_year":"2019","mileage":"45000","fuel_type":"Diesel","transmission":"Manual"}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandlePredict(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestHandlePredictMethodNotAllowed(t *testing.T) {
	h := testHandlers(t, false)

	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	w := httptest.NewRecorder()
	h.HandlePredict(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleOptions(t *testing.T) {
	h := testHandlers(t, false)

	req := httptest.NewRequest(http.MethodGet, "/get_options", nil)
	w := httptest.NewRecorder()
	h.HandleOptions(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var opts prediction.Options
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"BMW", "Toyota"}, opts.Brands)
	assert.Equal(t, []string{"Diesel", "Gasoline"}, opts.FuelTypes)
	assert.Equal(t, []string{"Automatic", "Manual"}, opts.Transmissions)
}

func multipartBody(t *testing.T, imageBytes []byte, withFile bool, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withFile {
		part, err := mw.CreateFormFile("image", "car.png")
		require.NoError(t, err)
		_, err = part.Write(imageBytes)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postImage(h *Handlers, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict_image", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.Background())
	w := httptest.NewRecorder()
	h.HandlePredictImage(w, req)
	return w
}

func TestHandlePredictImageSuccess(t *testing.T) {
	h := testHandlers(t, true)

	body, contentType := multipartBody(t, pngBytes(t), true, nil)
	w := postImage(h, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, 99000.0, resp["predicted_price"])
	assert.NotEmpty(t, resp["message"])

	est := resp["estimated_features"].(map[string]interface{})
	assert.GreaterOrEqual(t, est["model_year"].(float64), 2015.0)
	assert.LessOrEqual(t, est["model_year"].(float64), 2024.0)
}

func TestHandlePredictImageOverrides(t *testing.T) {
	h := testHandlers(t, true)

	body, contentType := multipartBody(t, pngBytes(t), true, map[string]string{
		"brand":      "BMW",
		"model_year": "2018",
		"mileage":    "12345",
		"horsepower": "400",
	})
	w := postImage(h, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	input := resp["input_data"].(map[string]interface{})
	assert.Equal(t, "BMW", input["brand"])
	assert.Equal(t, 2018.0, input["model_year"])

	// estimated_features echoes the resolved values, overrides included.
	est := resp["estimated_features"].(map[string]interface{})
	assert.Equal(t, 2018.0, est["model_year"])
	assert.Equal(t, 12345.0, est["mileage"])
	assert.Equal(t, 400.0, est["horsepower"])
}

func TestHandlePredictImageNoFile(t *testing.T) {
	h := testHandlers(t, true)

	body, contentType := multipartBody(t, nil, false, map[string]string{"brand": "BMW"})
	w := postImage(h, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "no image provided", resp["error"])
}

func TestHandlePredictImageEmptyFile(t *testing.T) {
	h := testHandlers(t, true)

	body, contentType := multipartBody(t, nil, true, nil)
	w := postImage(h, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "empty image file", resp["error"])
}

func TestHandlePredictImageBadBytes(t *testing.T) {
	h := testHandlers(t, true)

	body, contentType := multipartBody(t, []byte("not an image at all"), true, nil)
	w := postImage(h, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "unable to decode image", resp["error"])
}

func TestHandlePredictImageDisabled(t *testing.T) {
	h := testHandlers(t, false)

	body, contentType := multipartBody(t, pngBytes(t), true, nil)
	w := postImage(h, body, contentType)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
