package ai

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// cocoLabels maps the 1-based COCO category ids used by the SSD graph.
var cocoLabels = map[int]string{
	1: "person", 2: "bicycle", 3: "car", 4: "motorcycle", 5: "airplane",
	6: "bus", 7: "train", 8: "truck", 9: "boat", 10: "traffic light",
	11: "fire hydrant", 13: "stop sign", 14: "parking meter", 15: "bench",
	16: "bird", 17: "cat", 18: "dog", 19: "horse", 20: "sheep",
	21: "cow", 22: "elephant", 23: "bear", 24: "zebra", 25: "giraffe",
	27: "backpack", 28: "umbrella", 31: "handbag", 32: "tie", 33: "suitcase",
	34: "frisbee", 35: "skis", 36: "snowboard", 37: "sports ball", 38: "kite",
	39: "baseball bat", 40: "baseball glove", 41: "skateboard", 42: "surfboard",
	43: "tennis racket", 44: "bottle", 46: "wine glass", 47: "cup", 48: "fork",
	49: "knife", 50: "spoon", 51: "bowl", 52: "banana", 53: "apple",
	54: "sandwich", 55: "orange", 56: "broccoli", 57: "carrot", 58: "hot dog",
	59: "pizza", 60: "donut", 61: "cake", 62: "chair", 63: "couch",
	64: "potted plant", 65: "bed", 67: "dining table", 70: "toilet", 72: "tv",
	73: "laptop", 74: "mouse", 75: "remote", 76: "keyboard", 77: "cell phone",
	78: "microwave", 79: "oven", 80: "toaster", 81: "sink", 82: "refrigerator",
	84: "book", 85: "clock", 86: "vase", 87: "scissors", 88: "teddy bear",
	89: "hair drier", 90: "toothbrush",
}

// worldClasses is the open-vocabulary class list the YOLO-World export is
// built with. Index order matches the model output.
var worldClasses = []string{
	"person", "wallet", "keys", "key", "bunch of keys",
	"cell phone", "smartphone", "laptop", "computer",
	"computer mouse", "mouse", "keyboard", "bottle", "water bottle",
	"cup", "mug", "glasses", "sunglasses",
	"remote control", "remote", "book", "backpack", "bag", "handbag",
	"headphones", "headset", "earphones", "watch",
}

func cocoLabel(id int) string {
	if label, ok := cocoLabels[id]; ok {
		return label
	}
	return fmt.Sprintf("unknown%d", id)
}

// cocoNames returns the 80 COCO classes in the contiguous order YOLO models
// use.
func cocoNames() []string {
	ids := make([]int, 0, len(cocoLabels))
	for id := range cocoLabels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = cocoLabels[id]
	}
	return names
}

// defaultNames picks a built-in class list for a model reporting n classes.
func defaultNames(n int) []string {
	if n == len(worldClasses) {
		return worldClasses
	}
	return cocoNames()
}

func className(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return fmt.Sprintf("class%d", id)
}

// ReadClassNames reads one class name per line, skipping blank lines.
func ReadClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class names: %w", err)
	}
	return names, nil
}
