package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// JSONParser implements the Parser interface for JSON documents.
type JSONParser struct{}

// NewJSONParser creates a new JSONParser instance.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse streams JSON tokens so that object key order is preserved.
func (p *JSONParser) Parse(ctx context.Context, content []byte) (*unit.Table, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Join(ErrFailedToParseJSON, ErrTopLevelNotMapping)
	}

	tbl, err := jsonObject(dec, "")
	if err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Join(ErrFailedToParseJSON, fmt.Errorf("unexpected data after top-level object"))
	}
	return tbl, nil
}

// SupportsFileExtension checks if the parser supports the given file extension.
func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return hasExtension(ext, "json")
}

// jsonObject reads object members up to and including the closing brace.
func jsonObject(dec *json.Decoder, path string) (*unit.Table, error) {
	tbl := unit.NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at %q, got %v", path, tok)
		}
		v, err := jsonValue(dec, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		tbl.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return tbl, nil
}

func jsonValue(dec *json.Decoder, path string) (unit.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return unit.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			tbl, err := jsonObject(dec, path)
			if err != nil {
				return unit.Value{}, err
			}
			return unit.TableValue(tbl), nil
		case '[':
			items := []unit.Value{}
			for i := 0; dec.More(); i++ {
				item, err := jsonValue(dec, joinPath(path, strconv.Itoa(i)))
				if err != nil {
					return unit.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return unit.Value{}, err
			}
			return unit.Array(items...), nil
		}
		return unit.Value{}, fmt.Errorf("unexpected delimiter %q at %q", t, path)
	case string:
		return unit.String(t), nil
	case json.Number:
		return unit.String(t.String()), nil
	case bool:
		return unit.String(strconv.FormatBool(t)), nil
	case nil:
		return unit.Value{}, fmt.Errorf("%w: %q", ErrNullValue, path)
	default:
		return unit.Value{}, fmt.Errorf("%w %T at %q", ErrUnsupportedValue, tok, path)
	}
}
