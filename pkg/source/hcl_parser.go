package source

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// HCLParser implements the Parser interface for HCL documents.
//
// Top-level attributes and blocks become table entries in source order.
// A block "hero { ... }" becomes the table "hero"; labelled blocks nest one
// table per label, so `page "home" { ... }` becomes "page.home". Expressions
// are evaluated without variables or functions.
type HCLParser struct{}

// NewHCLParser creates a new HCLParser instance.
func NewHCLParser() *HCLParser {
	return &HCLParser{}
}

// Parse parses HCL content into a value tree.
func (p *HCLParser) Parse(ctx context.Context, content []byte) (*unit.Table, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	file, diags := hclsyntax.ParseConfig(content, "source.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrFailedToParseHCL, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.Join(ErrFailedToParseHCL, ErrTopLevelNotMapping)
	}

	tbl, err := hclBody(body, "")
	if err != nil {
		return nil, errors.Join(ErrFailedToParseHCL, err)
	}
	return tbl, nil
}

// SupportsFileExtension checks if the parser supports the given file extension.
func (p *HCLParser) SupportsFileExtension(ext string) bool {
	return hasExtension(ext, "hcl")
}

type hclEntry struct {
	start int
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func hclBody(body *hclsyntax.Body, path string) (*unit.Table, error) {
	entries := make([]hclEntry, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		entries = append(entries, hclEntry{start: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		entries = append(entries, hclEntry{start: block.TypeRange.Start.Byte, block: block})
	}
	slices.SortFunc(entries, func(a, b hclEntry) int { return a.start - b.start })

	tbl := unit.NewTable()
	for _, e := range entries {
		if e.attr != nil {
			v, err := hclExpr(e.attr.Expr, joinPath(path, e.attr.Name))
			if err != nil {
				return nil, err
			}
			tbl.Set(e.attr.Name, v)
			continue
		}
		if err := hclBlock(tbl, e.block, path); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func hclBlock(parent *unit.Table, block *hclsyntax.Block, path string) error {
	keys := append([]string{block.Type}, block.Labels...)
	target := parent
	for _, k := range keys[:len(keys)-1] {
		path = joinPath(path, k)
		existing, ok := target.Get(k)
		if !ok {
			next := unit.NewTable()
			target.Set(k, unit.TableValue(next))
			target = next
			continue
		}
		next, isTable := existing.Table()
		if !isTable {
			return fmt.Errorf("block %q conflicts with attribute at %q", block.Type, path)
		}
		target = next
	}

	last := keys[len(keys)-1]
	if _, exists := target.Get(last); exists {
		return fmt.Errorf("duplicate block %q at %q", last, joinPath(path, last))
	}
	inner, err := hclBody(block.Body, joinPath(path, last))
	if err != nil {
		return err
	}
	target.Set(last, unit.TableValue(inner))
	return nil
}

func hclExpr(expr hclsyntax.Expression, path string) (unit.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		tbl := unit.NewTable()
		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return unit.Value{}, diags
			}
			key, err := ctyString(kv, path)
			if err != nil {
				return unit.Value{}, err
			}
			v, err := hclExpr(item.ValueExpr, joinPath(path, key))
			if err != nil {
				return unit.Value{}, err
			}
			tbl.Set(key, v)
		}
		return unit.TableValue(tbl), nil
	case *hclsyntax.TupleConsExpr:
		items := make([]unit.Value, 0, len(e.Exprs))
		for i, item := range e.Exprs {
			v, err := hclExpr(item, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return unit.Value{}, err
			}
			items = append(items, v)
		}
		return unit.Array(items...), nil
	default:
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return unit.Value{}, diags
		}
		return ctyValue(v, path)
	}
}

func ctyValue(v cty.Value, path string) (unit.Value, error) {
	if v.IsNull() {
		return unit.Value{}, fmt.Errorf("%w: %q", ErrNullValue, path)
	}
	if !v.IsWhollyKnown() {
		return unit.Value{}, fmt.Errorf("%w: unknown value at %q", ErrUnsupportedValue, path)
	}

	ty := v.Type()
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		tbl := unit.NewTable()
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			key := k.AsString()
			child, err := ctyValue(ev, joinPath(path, key))
			if err != nil {
				return unit.Value{}, err
			}
			tbl.Set(key, child)
		}
		return unit.TableValue(tbl), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items := []unit.Value{}
		it := v.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, ev := it.Element()
			child, err := ctyValue(ev, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return unit.Value{}, err
			}
			items = append(items, child)
		}
		return unit.Array(items...), nil
	default:
		s, err := ctyString(v, path)
		if err != nil {
			return unit.Value{}, err
		}
		return unit.String(s), nil
	}
}

func ctyString(v cty.Value, path string) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("%w: %q", ErrNullValue, path)
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w %s at %q", ErrUnsupportedValue, v.Type().FriendlyName(), path)
	}
	return sv.AsString(), nil
}
