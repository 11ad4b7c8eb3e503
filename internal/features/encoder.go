package features

import (
	"encoding/json"
)

// FallbackCode is returned for labels not seen during fit. Requests with an
// unknown brand, fuel type or transmission must still succeed.
const FallbackCode = 0

// LabelEncoder maps string labels to dense integer codes. Codes are
// assigned in first-seen order during Fit; that ordering is part of the
// trained model's contract and is persisted with the other artifacts.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// NewLabelEncoder creates an empty encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{index: make(map[string]int)}
}

// Fit assigns a code to each distinct label in first-seen order.
// Fitting happens exactly once per training run.
func (e *LabelEncoder) Fit(labels []string) {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	for _, label := range labels {
		if _, ok := e.index[label]; !ok {
			e.index[label] = len(e.Classes)
			e.Classes = append(e.Classes, label)
		}
	}
}

// Encode is a total function: unknown labels map to FallbackCode rather
// than failing the request.
func (e *LabelEncoder) Encode(label string) int {
	if code, ok := e.index[label]; ok {
		return code
	}
	return FallbackCode
}

// Known reports whether the label was seen during fit.
func (e *LabelEncoder) Known(label string) bool {
	_, ok := e.index[label]
	return ok
}

// Len returns the number of fitted classes.
func (e *LabelEncoder) Len() int {
	return len(e.Classes)
}

// UnmarshalJSON restores the encoder and rebuilds the label index.
func (e *LabelEncoder) UnmarshalJSON(data []byte) error {
	type alias LabelEncoder
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	e.Classes = a.Classes
	e.index = make(map[string]int, len(a.Classes))
	for i, label := range a.Classes {
		e.index[label] = i
	}
	return nil
}
