package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/chazu/cheesemaker/pkg/sample"
	"github.com/chazu/cheesemaker/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene scripts into source zygomys accepts. It
// performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: sample-box -> sample_box
//     zygomys reads a hyphen inside an identifier as subtraction.
//
//  3. Line comments: ; and ;; become //, the zygomys comment syntax.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' || b[i] == '`' {
			j := skipString(b, i)
			result = append(result, b[i:j]...)
			i = j
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// skipString returns the index just past the string literal starting at
// b[i]. Double-quoted strings honor backslash escapes; raw strings do not.
func skipString(b []byte, i int) int {
	quote := b[i]
	i++
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword without a value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// sexpVec3 carries a point between builtins, e.g. from vec3 to sample-box.
type sexpVec3 struct {
	vec geom.Point
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts both :name keywords and "name" strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (geom.Point, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Point{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice. The empty list
// yields nil.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloats converts a list of numbers.
func toFloats(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		if out[i], err = toFloat64(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return out, nil
}

func floatPtr(v float64) *float64 { return &v }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin is the zygomys user function signature.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the scene builtins into env. They append to sc
// as the script runs. Source must go through preprocessSource first so
// that :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {
	for name, fn := range map[string]builtin{
		"point":           pointBuiltin(sc),
		"coords":          coordsBuiltin(sc),
		"tetra":           tetraBuiltin(sc),
		"vec3":            vec3Builtin,
		"sample_box":      sampleBuiltin(sc, "sample-box"),
		"sample_sphere":   sampleBuiltin(sc, "sample-sphere"),
		"sample_cylinder": sampleBuiltin(sc, "sample-cylinder"),
		"settings":        settingsBuiltin(sc),
		"scene":           sceneBuiltin(sc),
		"point_count":     countBuiltin(sc),
	} {
		env.AddFunction(name, fn)
	}
}

// (point x y z) appends one point and returns its index.
func pointBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("point requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: %c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		idx := sc.AddPoint(geom.Point{X: c[0], Y: c[1], Z: c[2]})
		return &zygo.SexpInt{Val: int64(idx)}, nil
	}
}

// (coords :x (list ...) :y (list ...) :z (list ...)) appends a cloud given
// as coordinate lists and returns the number of points added. Lists of
// different lengths abort the script.
func coordsBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var lists [3][]float64
		for i, axis := range []string{"x", "y", "z"} {
			v, ok := pa.kw[axis]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("coords: missing :%s", axis)
			}
			f, err := toFloats(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("coords: %s: %w", axis, err)
			}
			lists[i] = f
		}
		cloud, err := geom.CloudFromCoordinates(lists[0], lists[1], lists[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("coords: %w", err)
		}
		for _, p := range cloud {
			sc.AddPoint(p)
		}
		return &zygo.SexpInt{Val: int64(len(cloud))}, nil
	}
}

// (tetra i j k l) appends a cell of point indices and returns its index.
// Index checks happen in scene validation.
func tetraBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("tetra requires exactly 4 point indices, got %d", len(args))
		}
		var c scene.Cell
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tetra: index %d: %w", i, err)
			}
			c[i] = n
		}
		sc.AddCell(c)
		return &zygo.SexpInt{Val: int64(len(sc.Cells) - 1)}, nil
	}
}

// (vec3 x y z)
func vec3Builtin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: geom.Point{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// sampleBuiltin handles the sdfx sampling builtins:
//
//	(sample-box :size (vec3 2 1 1) :cells 8 :at (vec3 0 0 0))
//	(sample-sphere :radius 1 :cells 8)
//	(sample-cylinder :height 2 :radius 0.5 :cells 8)
//
// The sampled points are appended and their count returned.
func sampleBuiltin(sc *scene.Scene, label string) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		cells := sample.DefaultCells
		if v, ok := pa.kw["cells"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: cells: %w", label, err)
			}
			cells = n
		}
		num := func(key string) (float64, error) {
			v, ok := pa.kw[key]
			if !ok {
				return 0, fmt.Errorf("%s: missing :%s", label, key)
			}
			f, err := toFloat64(v)
			if err != nil {
				return 0, fmt.Errorf("%s: %s: %w", label, key, err)
			}
			return f, nil
		}

		var (
			cloud geom.Cloud
			err   error
		)
		switch label {
		case "sample-box":
			v, ok := pa.kw["size"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: missing :size", label)
			}
			size, verr := toVec3(v)
			if verr != nil {
				return zygo.SexpNull, fmt.Errorf("%s: size: %w", label, verr)
			}
			cloud, err = sample.Box(size, cells)
		case "sample-sphere":
			r, nerr := num("radius")
			if nerr != nil {
				return zygo.SexpNull, nerr
			}
			cloud, err = sample.Sphere(r, cells)
		default:
			h, nerr := num("height")
			if nerr != nil {
				return zygo.SexpNull, nerr
			}
			r, nerr := num("radius")
			if nerr != nil {
				return zygo.SexpNull, nerr
			}
			cloud, err = sample.Cylinder(h, r, cells)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
		}

		if v, ok := pa.kw["at"]; ok {
			at, verr := toVec3(v)
			if verr != nil {
				return zygo.SexpNull, fmt.Errorf("%s: at: %w", label, verr)
			}
			cloud = sample.Translate(cloud, at)
		}

		for _, p := range cloud {
			sc.AddPoint(p)
		}
		return &zygo.SexpInt{Val: int64(len(cloud))}, nil
	}
}

// (settings :method :delaunay :max-edge 1.5 :mode "alpha" :alpha 2
//
//	:offset :vertices :distance 1.001 :enumeration :legacy)
//
// Later calls override earlier ones key by key.
func settingsBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		st := &sc.Settings

		words := map[string]*string{
			"mode":        &st.Mode,
			"offset":      &st.Offset,
			"enumeration": &st.Enumeration,
		}
		numbers := map[string]**float64{
			"max-edge": &st.MaxEdge,
			"distance": &st.Distance,
			"alpha":    &st.Alpha,
		}

		for key, v := range pa.kw {
			if key == "method" {
				s, err := toKeywordString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: method: %w", err)
				}
				m, err := scene.ParseMethod(s)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %w", err)
				}
				st.Method = m
				continue
			}
			if dst, ok := words[key]; ok {
				s, err := toKeywordString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
				}
				*dst = s
				continue
			}
			if dst, ok := numbers[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
				}
				*dst = floatPtr(f)
				continue
			}
			return zygo.SexpNull, fmt.Errorf("settings: unknown key :%s", key)
		}
		return zygo.SexpNull, nil
	}
}

// (scene "name")
func sceneBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("scene requires a name argument")
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene: name: %w", err)
		}
		sc.Name = s
		return zygo.SexpNull, nil
	}
}

// (point-count)
func countBuiltin(sc *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(len(sc.Points))}, nil
	}
}
