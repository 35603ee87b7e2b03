package ai

import (
	"image"

	"findit/internal/logger"
	"findit/internal/service/vision"

	"gocv.io/x/gocv"
	"golang.org/x/sync/semaphore"
)

// NewYOLODetector loads a YOLOv8 ONNX export. names maps class index to name;
// when empty a built-in list is chosen from the number of classes the model
// reports.
func NewYOLODetector(modelPath string, names []string, inputSize int, scoreThreshold, nmsThreshold float32, log *logger.Logger) (*Detector, error) {
	net, err := readNet(modelPath, "")
	if err != nil {
		return nil, err
	}
	if inputSize <= 0 {
		inputSize = 640
	}

	return &Detector{
		name: "yolov8",
		net:  net,
		blob: blobParams{
			scale:  1.0 / 255.0,
			size:   image.Pt(inputSize, inputSize),
			mean:   gocv.NewScalar(0, 0, 0, 0),
			swapRB: true,
		},
		parse:  yoloParser(names, inputSize, scoreThreshold, nmsThreshold),
		sem:    semaphore.NewWeighted(1),
		logger: log,
	}, nil
}

// yoloParser reads output shaped [1, 4+classes, anchors] where each anchor
// column is (cx, cy, w, h, score per class) in input-size pixels.
func yoloParser(names []string, inputSize int, scoreThreshold, nmsThreshold float32) parseFunc {
	return func(output gocv.Mat, width, height int) []vision.Detection {
		dims := output.Size()
		if len(dims) != 3 || dims[1] <= 4 {
			return nil
		}
		attrs, anchors := dims[1], dims[2]

		grid := output.Reshape(1, attrs)
		defer grid.Close()

		sx := float32(width) / float32(inputSize)
		sy := float32(height) / float32(inputSize)
		candidates := decodeYOLO(grid.GetFloatAt, attrs, anchors, sx, sy, scoreThreshold)
		if len(candidates) == 0 {
			return nil
		}

		rects := make([]image.Rectangle, len(candidates))
		scores := make([]float32, len(candidates))
		for i, c := range candidates {
			rects[i] = image.Rect(int(c.box.X1), int(c.box.Y1), int(c.box.X2), int(c.box.Y2))
			scores[i] = c.score
		}
		keep := gocv.NMSBoxes(rects, scores, scoreThreshold, nmsThreshold)

		classes := names
		if len(classes) == 0 {
			classes = defaultNames(attrs - 4)
		}
		detections := make([]vision.Detection, 0, len(keep))
		for _, i := range keep {
			c := candidates[i]
			detections = append(detections, vision.Detection{
				ClassName:  className(classes, c.class),
				Confidence: float64(c.score),
				Box:        c.box,
			})
		}
		return detections
	}
}

type candidate struct {
	class int
	score float32
	box   vision.BBox
}

// decodeYOLO picks the best class per anchor and keeps anchors scoring at
// least threshold. at(row, col) reads attribute row of anchor col; sx and sy
// scale input-size pixels back to the source image.
func decodeYOLO(at func(row, col int) float32, attrs, anchors int, sx, sy, threshold float32) []candidate {
	var out []candidate
	for a := 0; a < anchors; a++ {
		best, bestScore := -1, float32(0)
		for row := 4; row < attrs; row++ {
			if s := at(row, a); s > bestScore {
				best, bestScore = row-4, s
			}
		}
		if best < 0 || bestScore < threshold {
			continue
		}

		cx, cy, w, h := at(0, a), at(1, a), at(2, a), at(3, a)
		out = append(out, candidate{
			class: best,
			score: bestScore,
			box: vision.BBox{
				X1: float64((cx - w/2) * sx),
				Y1: float64((cy - h/2) * sy),
				X2: float64((cx + w/2) * sx),
				Y2: float64((cy + h/2) * sy),
			},
		})
	}
	return out
}
