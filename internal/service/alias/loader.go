package alias

import (
	"fmt"
	"os"

	"findit/internal/config"
	"findit/internal/logger"

	"gopkg.in/yaml.v3"
)

type aliasReader struct {
	entries  []Entry
	warnings []string
}

func (ar *aliasReader) visit(canonical string, value *yaml.Node) error {
	var aliases []string
	if err := value.Decode(&aliases); err != nil {
		ar.warnings = append(ar.warnings, fmt.Sprintf("alias entry %q: %v", canonical, err))
		return nil
	}
	ar.entries = append(ar.entries, Entry{Canonical: canonical, Aliases: aliases})
	return nil
}

func (ar *aliasReader) result(err error) ([]Entry, []string, error) {
	if err != nil {
		return nil, ar.warnings, err
	}
	return ar.entries, ar.warnings, nil
}

// Parse decodes an alias file: an object of canonical name to a list of alias
// strings. Entries whose value is not a string list are skipped and reported.
// Repeated canonical names are passed through; NewResolver keeps the last.
func Parse(data []byte) ([]Entry, []string, error) {
	var ar aliasReader
	return ar.result(config.DecodeOrderedMapping(data, ar.visit))
}

// Load reads and parses the alias file at path.
func Load(path string) ([]Entry, []string, error) {
	var ar aliasReader
	return ar.result(config.ReadOrderedMapping(path, ar.visit))
}

// LoadOrEmpty loads the alias table, logging and returning an empty table on
// failure. Queries then resolve literally.
func LoadOrEmpty(path string, log *logger.Logger) []Entry {
	entries, warnings, err := Load(path)
	for _, w := range warnings {
		log.Warning("Skipping malformed %s", w)
	}
	if err != nil {
		if os.IsNotExist(err) {
			log.Warning("Alias file %s not found, queries will match literally", path)
		} else {
			log.Error("Error loading aliases from %s: %v", path, err)
		}
		return nil
	}

	log.Info("Loaded %d alias entries from %s", len(entries), path)
	return entries
}
