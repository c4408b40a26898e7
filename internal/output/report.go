package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/finplan/regime-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report for format into dir and returns the file name.
// "all" writes every registered format.
func GenerateReport(results *domain.PlanComparison, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, results, dir, Extension(f))
			if err != nil {
				return files, fmt.Errorf("%s report: %w", f.Name(), err)
			}
			files = append(files, name)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, results, dir, Extension(f))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// SaveConfiguration writes a plan configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
