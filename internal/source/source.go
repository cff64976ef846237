// Package source parses the declarative YAML input for the populate
// operation into field records consumed read-only by the engine.
package source

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Record is one hash-population entry: the target key and the fields to
// merge into it. Field values already present on the target but absent here
// are left untouched by the engine.
type Record struct {
	Key    string            `yaml:"key"`
	Values map[string]string `yaml:"values"`
}

// document is the wrapped form of the source file.
type document struct {
	Records []Record `yaml:"records"`
}

// Load reads and validates a populate source file. Both a top-level list of
// records and a document with a records: key are accepted:
//
//	- key: user:1
//	  values:
//	    name: alice
//
//	records:
//	  - key: user:1
//	    values:
//	      name: alice
//
// A missing file, unparsable YAML, or a record without a key or without
// values is an error.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	records, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", path, err)
	}
	return records, nil
}

func parse(data []byte) ([]Record, error) {
	var records []Record
	listErr := yaml.Unmarshal(data, &records)
	if listErr != nil || records == nil {
		var doc document
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil || doc.Records == nil {
			if listErr == nil {
				listErr = fmt.Errorf("no records found")
			}
			return nil, listErr
		}
		records = doc.Records
	}
	for i, rec := range records {
		if rec.Key == "" {
			return nil, fmt.Errorf("record %d: missing key", i)
		}
		if len(rec.Values) == 0 {
			return nil, fmt.Errorf("record %d (%s): no values", i, rec.Key)
		}
	}
	return records, nil
}
