package animation

import (
	"strings"

	"github.com/pkg/errors"
)

// Target is an object with animatable properties. Targets are used as map
// keys, so implementations should be pointers.
type Target interface {
	GetValue(property string) (Value, error)
	SetValue(property string, v Value) error
}

// SubTargeter is implemented by targets whose properties hold further
// targets, so paths like "Brush.Color" can be followed.
type SubTargeter interface {
	SubTarget(property string) (Target, error)
}

// NameScope finds targets by name.
type NameScope interface {
	FindName(name string) (Target, bool)
}

// Names is a map based NameScope.
type Names map[string]Target

// FindName implements NameScope.
func (n Names) FindName(name string) (Target, bool) {
	t, ok := n[name]
	return t, ok
}

// PropertyPath is a parsed target property: "Opacity", "(Strip.Opacity)"
// or a dotted path such as "Brush.Color" or "(Strip.Brush).(Brush.Color)".
type PropertyPath []string

// ParsePropertyPath parses s. Owner qualifiers inside parentheses are
// dropped.
func ParsePropertyPath(s string) (PropertyPath, error) {
	var (
		path  PropertyPath
		part  strings.Builder
		depth int
	)
	flush := func() error {
		p := strings.TrimSpace(part.String())
		part.Reset()
		if strings.HasPrefix(p, "(") && strings.HasSuffix(p, ")") {
			p = p[1 : len(p)-1]
			if i := strings.LastIndexByte(p, '.'); i >= 0 {
				p = p[i+1:]
			}
		}
		if p == "" || strings.ContainsAny(p, "()") {
			return errors.Wrapf(ErrInvalidPropertyPath, "%q", s)
		}
		path = append(path, p)
		return nil
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errors.Wrapf(ErrInvalidPropertyPath, "%q", s)
			}
		case r == '.' && depth == 0:
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		part.WriteRune(r)
	}
	if depth != 0 {
		return nil, errors.Wrapf(ErrInvalidPropertyPath, "%q", s)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return path, nil
}

// Property returns the final property name.
func (p PropertyPath) Property() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

func (p PropertyPath) String() string { return strings.Join(p, ".") }

// Resolve walks the path from t and returns the object owning the final
// property.
func (p PropertyPath) Resolve(t Target) (Target, string, error) {
	if len(p) == 0 {
		return nil, "", ErrInvalidPropertyPath
	}
	for _, prop := range p[:len(p)-1] {
		st, ok := t.(SubTargeter)
		if !ok {
			return nil, "", errors.Wrapf(ErrUnknownProperty, "%s has no sub-objects", prop)
		}
		next, err := st.SubTarget(prop)
		if err != nil {
			return nil, "", errors.Wrapf(err, "resolving %s", prop)
		}
		t = next
	}
	return t, p.Property(), nil
}
