package features

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoderFitFirstSeenOrder(t *testing.T) {
	e := NewLabelEncoder()
	e.Fit([]string{"Toyota", "BMW", "Toyota", "Audi"})

	assert.Equal(t, []string{"Toyota", "BMW", "Audi"}, e.Classes)
	assert.Equal(t, 0, e.Encode("Toyota"))
	assert.Equal(t, 1, e.Encode("BMW"))
	assert.Equal(t, 2, e.Encode("Audi"))
	assert.Equal(t, 3, e.Len())
}

func TestLabelEncoderUnknownLabelFallsBack(t *testing.T) {
	e := NewLabelEncoder()
	e.Fit([]string{"Gasoline", "Diesel"})

	assert.Equal(t, FallbackCode, e.Encode("Steam"))
	assert.False(t, e.Known("Steam"))
	assert.True(t, e.Known("Diesel"))
}

func TestLabelEncoderRoundTrip(t *testing.T) {
	e := NewLabelEncoder()
	e.Fit([]string{"Automatic", "Manual", "CVT"})

	data, err := json.Marshal(e)
	require.NoError(t, err)

	restored := &LabelEncoder{}
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, e.Classes, restored.Classes)
	assert.Equal(t, 1, restored.Encode("Manual"))
	assert.Equal(t, FallbackCode, restored.Encode("Hydraulic"))
}
