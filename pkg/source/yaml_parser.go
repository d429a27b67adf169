package source

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// YAMLParser implements the Parser interface for YAML documents.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser instance.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse decodes YAML into a node tree first so that mapping order survives.
func (p *YAMLParser) Parse(ctx context.Context, content []byte) (*unit.Table, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	// An empty document decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return unit.NewTable(), nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.Join(ErrFailedToParseYAML, ErrTopLevelNotMapping)
	}

	v, err := yamlValue(root, "")
	if err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	tbl, _ := v.Table()
	return tbl, nil
}

// SupportsFileExtension checks if the parser supports the given file extension.
func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	return hasExtension(ext, "yaml", "yml")
}

func yamlValue(n *yaml.Node, path string) (unit.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias, path)
	case yaml.MappingNode:
		tbl := unit.NewTable()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child, err := yamlValue(n.Content[i+1], joinPath(path, key))
			if err != nil {
				return unit.Value{}, err
			}
			tbl.Set(key, child)
		}
		return unit.TableValue(tbl), nil
	case yaml.SequenceNode:
		items := make([]unit.Value, 0, len(n.Content))
		for i, c := range n.Content {
			child, err := yamlValue(c, joinPath(path, fmt.Sprint(i)))
			if err != nil {
				return unit.Value{}, err
			}
			items = append(items, child)
		}
		return unit.Array(items...), nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return unit.Value{}, fmt.Errorf("%w: %q (line %d)", ErrNullValue, path, n.Line)
		}
		return unit.String(n.Value), nil
	default:
		return unit.Value{}, fmt.Errorf("%w at %q (line %d)", ErrUnsupportedValue, path, n.Line)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
