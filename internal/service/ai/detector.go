package ai

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	"findit/internal/logger"
	"findit/internal/service/vision"

	"gocv.io/x/gocv"
	"golang.org/x/sync/semaphore"
)

// parseFunc turns the raw network output into detections in source pixels.
type parseFunc func(output gocv.Mat, width, height int) []vision.Detection

// Detector runs a gocv DNN over JPEG images. gocv.Net is not safe for
// concurrent Forward calls, so every inference holds a one-slot semaphore;
// waiting respects the caller's context.
type Detector struct {
	name  string
	net   gocv.Net
	blob  blobParams
	parse parseFunc
	sem   *semaphore.Weighted

	logger *logger.Logger
}

type blobParams struct {
	scale  float64
	size   image.Point
	mean   gocv.Scalar
	swapRB bool
}

// readNet loads a network and pins it to the default backend on CPU.
func readNet(modelPath, configPath string) (gocv.Net, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return gocv.Net{}, fmt.Errorf("model file not found: %s", modelPath)
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return gocv.Net{}, fmt.Errorf("config file not found: %s", configPath)
		}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return gocv.Net{}, fmt.Errorf("failed to load network from %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return gocv.Net{}, fmt.Errorf("failed to set preferable backend or target")
	}
	return net, nil
}

// Available reports whether a network was loaded. Detectors are only built
// around a loaded network, so this is false just for a nil Detector.
func (d *Detector) Available() bool {
	return d != nil
}

func (d *Detector) Name() string {
	return d.name
}

// Infer decodes img, runs the network and returns the detections together
// with the image re-encoded with boxes drawn on it.
func (d *Detector) Infer(ctx context.Context, img []byte) (*vision.Result, error) {
	if !d.Available() {
		return nil, vision.ErrUnavailable
	}

	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vision.ErrDecode, err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: decoded image is empty", vision.ErrDecode)
	}

	detections, err := d.detect(ctx, mat)
	if err != nil {
		return nil, err
	}

	annotated, err := drawDetections(&mat, detections)
	if err != nil {
		return nil, err
	}

	return &vision.Result{
		Detections: detections,
		Width:      mat.Cols(),
		Height:     mat.Rows(),
		Annotated:  annotated,
	}, nil
}

func (d *Detector) detect(ctx context.Context, mat gocv.Mat) ([]vision.Detection, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer d.sem.Release(1)

	blob := gocv.BlobFromImage(mat, d.blob.scale, d.blob.size, d.blob.mean, d.blob.swapRB, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()
	if output.Empty() {
		return nil, fmt.Errorf("%s: network returned no output", d.name)
	}

	detections := d.parse(output, mat.Cols(), mat.Rows())
	d.logger.Debug("%s detected %d objects", d.name, len(detections))
	return detections, nil
}

// Close releases the network.
func (d *Detector) Close() error {
	if d == nil {
		return nil
	}
	return d.net.Close()
}

var boxColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}

// drawDetections draws every detection on mat and returns it as a JPEG.
func drawDetections(mat *gocv.Mat, detections []vision.Detection) ([]byte, error) {
	for _, det := range detections {
		rect := image.Rect(int(det.Box.X1), int(det.Box.Y1), int(det.Box.X2), int(det.Box.Y2))
		if err := gocv.Rectangle(mat, rect, boxColor, 2); err != nil {
			return nil, fmt.Errorf("%w: failed to draw rectangle: %v", vision.ErrEncode, err)
		}

		label := fmt.Sprintf("%s %.2f", det.ClassName, det.Confidence)
		y := rect.Min.Y - 5
		if y < 10 {
			y = rect.Min.Y + 15
		}
		if err := gocv.PutText(mat, label, image.Pt(rect.Min.X, y), gocv.FontHersheySimplex, 0.5, boxColor, 1); err != nil {
			return nil, fmt.Errorf("%w: failed to draw text: %v", vision.ErrEncode, err)
		}
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vision.ErrEncode, err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
