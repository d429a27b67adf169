package source

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// TOMLParser implements the Parser interface for TOML documents.
// Values are decoded with toml.Unmarshal; key order is taken from the
// document itself, so tables keep the order in which their keys first
// appear, whether set directly, through dotted keys or by table headers.
type TOMLParser struct{}

// NewTOMLParser creates a new TOMLParser instance.
func NewTOMLParser() *TOMLParser {
	return &TOMLParser{}
}

// Parse parses TOML content into a value tree.
func (p *TOMLParser) Parse(ctx context.Context, content []byte) (*unit.Table, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var data map[string]any
	if err := toml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseTOML, err)
	}
	order, err := tomlKeyOrder(content)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseTOML, err)
	}

	tbl, err := order.table(data, "", nil)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseTOML, err)
	}
	return tbl, nil
}

// SupportsFileExtension checks if the parser supports the given file extension.
func (p *TOMLParser) SupportsFileExtension(ext string) bool {
	return hasExtension(ext, "toml")
}

// tomlOrder maps a key path to the position of its first appearance.
// Elements of an array share the path of the array.
type tomlOrder map[string]int

func tomlKeyOrder(content []byte) (tomlOrder, error) {
	order := make(tomlOrder)
	var p unstable.Parser
	p.Reset(content)

	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = tomlKeys(e.Key())
			order.see(table)
		case unstable.KeyValue:
			order.keyValue(table, e)
		}
	}
	return order, p.Error()
}

func (o tomlOrder) keyValue(parent []string, kv *unstable.Node) {
	path := append(slices.Clone(parent), tomlKeys(kv.Key())...)
	o.see(path)
	o.value(path, kv.Value())
}

func (o tomlOrder) value(path []string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			o.keyValue(path, it.Node())
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			o.value(path, it.Node())
		}
	}
}

// see records path and every prefix of it.
func (o tomlOrder) see(path []string) {
	for i := 1; i <= len(path); i++ {
		k := tomlOrderKey(path[:i])
		if _, ok := o[k]; !ok {
			o[k] = len(o)
		}
	}
}

func (o tomlOrder) table(m map[string]any, path string, at []string) (*unit.Table, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	pos := func(k string) (int, bool) {
		i, ok := o[tomlOrderKey(append(slices.Clone(at), k))]
		return i, ok
	}
	slices.SortFunc(keys, func(a, b string) int {
		ia, oka := pos(a)
		ib, okb := pos(b)
		switch {
		case oka && okb:
			return cmp.Compare(ia, ib)
		case oka:
			return -1
		case okb:
			return 1
		default:
			return cmp.Compare(a, b)
		}
	})

	tbl := unit.NewTable()
	for _, k := range keys {
		v, err := o.convert(m[k], joinPath(path, k), append(slices.Clone(at), k))
		if err != nil {
			return nil, err
		}
		tbl.Set(k, v)
	}
	return tbl, nil
}

func tomlKeys(it unstable.Iterator) []string {
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Node().Data))
	}
	return keys
}

func tomlOrderKey(path []string) string {
	return strings.Join(path, "\x00")
}

func (o tomlOrder) convert(raw any, path string, at []string) (unit.Value, error) {
	switch v := raw.(type) {
	case string:
		return unit.String(v), nil
	case map[string]any:
		tbl, err := o.table(v, path, at)
		if err != nil {
			return unit.Value{}, err
		}
		return unit.TableValue(tbl), nil
	case []any:
		items := make([]unit.Value, 0, len(v))
		for i, item := range v {
			child, err := o.convert(item, joinPath(path, strconv.Itoa(i)), at)
			if err != nil {
				return unit.Value{}, err
			}
			items = append(items, child)
		}
		return unit.Array(items...), nil
	case int64:
		return unit.String(strconv.FormatInt(v, 10)), nil
	case float64:
		return unit.String(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case bool:
		return unit.String(strconv.FormatBool(v)), nil
	case time.Time:
		return unit.String(v.Format(time.RFC3339)), nil
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return unit.String(fmt.Sprint(v)), nil
	case nil:
		return unit.Value{}, fmt.Errorf("%w: %q", ErrNullValue, path)
	default:
		return unit.Value{}, fmt.Errorf("%w %T at %q", ErrUnsupportedValue, raw, path)
	}
}
