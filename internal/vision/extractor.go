package vision

import (
	"image"
	"sync"
	"time"

	onnxruntime "github.com/yalue/onnxruntime_go"

	"carprice/internal/adapters/config"
	"carprice/internal/metrics"
	"carprice/pkg/errors"
)

// Extractor is the opaque image-feature function: decoded image in,
// numeric feature vector out. The service never interprets the vector
// beyond the placeholder estimation heuristic.
type Extractor interface {
	Extract(img image.Image) ([]float64, error)
}

// ONNXExtractor runs a pretrained image classifier through ONNX Runtime.
// Session access is serialized; ONNX Runtime does not guarantee concurrent
// Run calls on one session are safe, so one request extracts at a time.
type ONNXExtractor struct {
	mu         sync.Mutex
	session    *onnxruntime.DynamicAdvancedSession
	inputName  string
	outputName string
	outputSize int
}

// NewONNXExtractor loads the classifier from cfg.ModelPath.
func NewONNXExtractor(cfg config.VisionConfig) (*ONNXExtractor, error) {
	// Initialize ONNX runtime environment (only once)
	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName}, options)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load image model %s", cfg.ModelPath)
	}

	return &ONNXExtractor{
		session:    session,
		inputName:  cfg.InputName,
		outputName: cfg.OutputName,
		outputSize: cfg.OutputSize,
	}, nil
}

// Extract implements Extractor.
func (e *ONNXExtractor) Extract(img image.Image) ([]float64, error) {
	if e.session == nil {
		return nil, errors.New("image model session is nil")
	}

	start := time.Now()
	defer func() {
		metrics.ImageExtractDuration.Observe(time.Since(start).Seconds())
	}()

	pixels := Preprocess(img)

	inputShape := onnxruntime.NewShape(1, 3, cropTo, cropTo)
	inputTensor, err := onnxruntime.NewTensor(inputShape, pixels)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}
	defer inputTensor.Destroy()

	output := make([]float32, e.outputSize)
	outputShape := onnxruntime.NewShape(1, int64(e.outputSize))
	outputTensor, err := onnxruntime.NewTensor(outputShape, output)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output tensor")
	}
	defer outputTensor.Destroy()

	e.mu.Lock()
	err = e.session.Run(
		[]onnxruntime.Value{inputTensor},
		[]onnxruntime.Value{outputTensor},
	)
	e.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "image feature extraction failed")
	}

	features := make([]float64, len(output))
	for i, v := range output {
		features[i] = float64(v)
	}
	return features, nil
}

// Destroy cleans up the ONNX session
func (e *ONNXExtractor) Destroy() {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
}
