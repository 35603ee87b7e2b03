package ai

import (
	"image"

	"findit/internal/logger"
	"findit/internal/service/vision"

	"gocv.io/x/gocv"
	"golang.org/x/sync/semaphore"
)

// NewSSDDetector loads the TensorFlow SSD MobileNet COCO graph used as the
// reduced-capability fallback.
func NewSSDDetector(modelPath, configPath string, scoreThreshold float32, log *logger.Logger) (*Detector, error) {
	net, err := readNet(modelPath, configPath)
	if err != nil {
		return nil, err
	}

	return &Detector{
		name: "ssd-mobilenet",
		net:  net,
		// Input parameters of the ssd coco net.
		blob: blobParams{
			scale:  1.0 / 127.5,
			size:   image.Pt(300, 300),
			mean:   gocv.NewScalar(127.5, 127.5, 127.5, 0),
			swapRB: true,
		},
		parse: func(output gocv.Mat, width, height int) []vision.Detection {
			rows := output.Reshape(1, output.Total()/7)
			defer rows.Close()
			return decodeSSD(rows.GetFloatAt, rows.Rows(), width, height, scoreThreshold)
		},
		sem:    semaphore.NewWeighted(1),
		logger: log,
	}, nil
}

// decodeSSD reads rows of [batch_id, class_id, confidence, x1, y1, x2, y2]
// with coordinates normalized to the image size.
func decodeSSD(at func(row, col int) float32, rows, width, height int, threshold float32) []vision.Detection {
	var out []vision.Detection
	w, h := float32(width), float32(height)
	for i := 0; i < rows; i++ {
		confidence := at(i, 2)
		if confidence < threshold {
			continue
		}
		out = append(out, vision.Detection{
			ClassName:  cocoLabel(int(at(i, 1))),
			Confidence: float64(confidence),
			Box: vision.BBox{
				X1: float64(at(i, 3) * w),
				Y1: float64(at(i, 4) * h),
				X2: float64(at(i, 5) * w),
				Y2: float64(at(i, 6) * h),
			},
		})
	}
	return out
}
