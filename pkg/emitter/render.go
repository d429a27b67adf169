package emitter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

// File is one rendered output file.
type File struct {
	Path string
	Data []byte
}

// Bundle returns the content of every unit of a locale as one table keyed
// by unit name, in unit name order.
func Bundle(res *compiler.Result, locale string) (*unit.Table, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	units, ok := res.Locales[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	out := unit.NewTable()
	for _, u := range units {
		out.Set(u.Metadata.Name, unit.TableValue(u.Content))
	}
	return out, nil
}

// Content returns the resolved content of one unit.
func Content(res *compiler.Result, locale, name string) (*unit.Table, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	if _, ok := res.Locales[locale]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	u, ok := res.Unit(locale, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownUnit, locale, name)
	}
	return u.Content, nil
}

// Encode marshals v as JSON, indented with indent when it is not empty.
func Encode(v any, indent string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", indent)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return append(data, '\n'), nil
}

// Render produces the files of a result for the given layout, locales in
// sorted order.
func Render(res *compiler.Result, layout Layout, indent string) ([]File, error) {
	if res == nil {
		return nil, ErrNoResult
	}

	var files []File
	for _, locale := range res.LocaleNames() {
		switch layout {
		case LayoutBundle:
			tbl, err := Bundle(res, locale)
			if err != nil {
				return nil, err
			}
			data, err := Encode(tbl, indent)
			if err != nil {
				return nil, err
			}
			files = append(files, File{Path: BundlePath(locale), Data: data})
		case LayoutSplit:
			for _, u := range res.Units(locale) {
				data, err := Encode(u.Content, indent)
				if err != nil {
					return nil, err
				}
				files = append(files, File{Path: UnitPath(locale, u.Metadata.Name), Data: data})
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
		}
	}
	return files, nil
}
