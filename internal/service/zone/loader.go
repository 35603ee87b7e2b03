package zone

import (
	"fmt"
	"os"

	"findit/internal/config"
	"findit/internal/logger"

	"gopkg.in/yaml.v3"
)

type zoneSpec struct {
	XMin        *float64 `yaml:"x_min"`
	XMax        *float64 `yaml:"x_max"`
	YMin        *float64 `yaml:"y_min"`
	YMax        *float64 `yaml:"y_max"`
	Description string   `yaml:"description"`
}

// zoneReader collects zones in file order. A name repeated later in the file
// replaces the earlier value but keeps its position, as a JSON object would.
type zoneReader struct {
	zones    []Zone
	index    map[string]int
	warnings []string
}

func (zr *zoneReader) visit(name string, value *yaml.Node) error {
	var spec zoneSpec
	if err := value.Decode(&spec); err != nil {
		zr.warnings = append(zr.warnings, fmt.Sprintf("zone %q: %v", name, err))
		return nil
	}
	if spec.XMin == nil || spec.XMax == nil || spec.YMin == nil || spec.YMax == nil {
		zr.warnings = append(zr.warnings, fmt.Sprintf("zone %q: missing coordinate", name))
		return nil
	}

	z := Zone{
		Name:        name,
		XMin:        *spec.XMin,
		XMax:        *spec.XMax,
		YMin:        *spec.YMin,
		YMax:        *spec.YMax,
		Description: spec.Description,
	}
	if i, ok := zr.index[name]; ok {
		zr.zones[i] = z
		return nil
	}
	if zr.index == nil {
		zr.index = map[string]int{}
	}
	zr.index[name] = len(zr.zones)
	zr.zones = append(zr.zones, z)
	return nil
}

func (zr *zoneReader) result(err error) ([]Zone, []string, error) {
	if err != nil {
		return nil, zr.warnings, err
	}
	return zr.zones, zr.warnings, nil
}

// Parse decodes a zone file: an object of zone name to
// {x_min, x_max, y_min, y_max, description}. Entries missing a coordinate are
// skipped and reported in the returned warnings.
func Parse(data []byte) ([]Zone, []string, error) {
	var zr zoneReader
	return zr.result(config.DecodeOrderedMapping(data, zr.visit))
}

// Load reads and parses the zone file at path.
func Load(path string) ([]Zone, []string, error) {
	var zr zoneReader
	return zr.result(config.ReadOrderedMapping(path, zr.visit))
}

// LoadOrEmpty loads zones, logging and returning an empty set on any failure.
// Classification then uses the fallback banding only.
func LoadOrEmpty(path string, log *logger.Logger) []Zone {
	zones, warnings, err := Load(path)
	for _, w := range warnings {
		log.Warning("Skipping malformed %s", w)
	}
	if err != nil {
		if os.IsNotExist(err) {
			log.Warning("Zone file %s not found, using horizontal banding only", path)
		} else {
			log.Error("Error loading zones from %s: %v", path, err)
		}
		return nil
	}

	log.Info("Loaded %d zones from %s", len(zones), path)
	return zones
}
