package content

import (
	"context"
	"encoding/json"
	"strings"

	"minicourse/apperr"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export renders the owner's tree as JSON or YAML and returns the body with
// its content type.
func (f *Facade) Export(ctx context.Context, actor, courseID uint, format string) ([]byte, string, error) {
	const op = "content.Export"

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format == "yml" {
		format = FormatYAML
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, "", apperr.WithFields(apperr.ErrInvalid, op, map[string]string{
			"format": "Format must be json or yaml!",
		})
	}

	tree, err := f.Tree(ctx, actor, courseID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(tree)
		if err != nil {
			return nil, "", err
		}
		return out, "application/yaml", nil
	default:
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return out, "application/json", nil
	}
}
