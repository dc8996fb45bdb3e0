package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms csg2d Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: corner-radius -> corner_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
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
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a geom.Vec2.
type sexpVec2 struct {
	vec geom.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpShapeRef wraps a graph.NodeID so shapes can be passed between builtins
// and bound to variables.
type sexpShapeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (r *sexpShapeRef) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(shape %q)", r.name)
	}
	return fmt.Sprintf("(shape %s)", r.id.Short())
}
func (r *sexpShapeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
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
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// checkKeywords rejects keywords a builtin does not understand.
func checkKeywords(form string, pa kwArgs, allowed ...string) error {
	for k := range pa.kw {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s: unknown keyword :%s", form, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toFinite extracts a finite float64.
func toFinite(s zygo.Sexp) (float64, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected finite number, got %v", f)
	}
	return f, nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. Numbers are true when non-zero.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// isNumber reports whether s is an integer or float.
func isNumber(s zygo.Sexp) bool {
	switch s.(type) {
	case *zygo.SexpInt, *zygo.SexpFloat:
		return true
	}
	return false
}

// toVec2 extracts a point from a sexpVec2 or a two-number list or array.
func toVec2(s zygo.Sexp) (geom.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 2 || !isNumber(items[0]) || !isNumber(items[1]) {
		return geom.Vec2{}, fmt.Errorf("expected vec2 or [x y], got %T (%s)", s, s.SexpString(nil))
	}
	x, _ := toFloat64(items[0])
	y, _ := toFloat64(items[1])
	return geom.V2(x, y), nil
}

// toLoop extracts a loop from a list or array of points.
func toLoop(s zygo.Sexp) (geom.Loop, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	return pointsToLoop(items)
}

func pointsToLoop(items []zygo.Sexp) (geom.Loop, error) {
	loop := make(geom.Loop, 0, len(items))
	for i, item := range items {
		p, err := toVec2(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		loop = append(loop, p)
	}
	return loop, nil
}

// isLoop reports whether s is a list or array whose first element is a
// point rather than a coordinate.
func isLoop(s zygo.Sexp) bool {
	items, err := sexpListToSlice(s)
	if err != nil || len(items) == 0 {
		return false
	}
	return !isNumber(items[0])
}

// toShapeRef extracts a NodeID from a sexpShapeRef.
func toShapeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpShapeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
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

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

// builder adds nodes to the graph of a single evaluation. Anonymous node IDs
// come from a per-evaluation counter so that the same source always yields
// the same IDs.
type builder struct {
	g       *graph.ShapeGraph
	counter uint64
}

func newBuilder(g *graph.ShapeGraph) *builder {
	return &builder{g: g}
}

// anonPath returns a fresh node path for an unnamed node produced by form.
func (b *builder) anonPath(form string) string {
	b.counter++
	return fmt.Sprintf("%s/_anon_%d", form, b.counter)
}

// add creates a node, fills in its content hash and registers it.
func (b *builder) add(form, path, name string, kind graph.NodeKind, children []graph.NodeID, data graph.NodeData) (*sexpShapeRef, error) {
	hash, err := b.g.HashContent(kind, data, children)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", form, err)
	}
	n := &graph.Node{
		ID:          graph.NewNodeID(path),
		Kind:        kind,
		Name:        name,
		Source:      graph.SourceRef{Form: form},
		ContentHash: hash,
		Children:    children,
		Data:        data,
	}
	b.g.AddNode(n)
	return &sexpShapeRef{id: n.ID, name: name}, nil
}

// shapes converts every argument to a shape reference.
func shapes(form string, args []zygo.Sexp) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(args))
	for i, a := range args {
		id, err := toShapeRef(a)
		if err != nil {
			return nil, fmt.Errorf("%s: operand %d: %w", form, i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// tagAndOffset reads the optional :tag and :at keywords shared by the
// polygon-producing builtins.
func tagAndOffset(form string, pa kwArgs) (string, geom.Vec2, error) {
	var (
		tag string
		at  geom.Vec2
		err error
	)
	if v, ok := pa.kw["tag"]; ok {
		if tag, err = toString(v); err != nil {
			return "", at, fmt.Errorf("%s: tag: %w", form, err)
		}
	}
	if v, ok := pa.kw["at"]; ok {
		if at, err = toVec2(v); err != nil {
			return "", at, fmt.Errorf("%s: at: %w", form, err)
		}
	}
	return tag, at, nil
}

func offsetLoop(l geom.Loop, d geom.Vec2) geom.Loop {
	out := make(geom.Loop, len(l))
	for i, p := range l {
		out[i] = p.Add(d)
	}
	return out
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all csg2d DSL builtins into a zygomys environment.
// The builtins operate on the provided ShapeGraph, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.ShapeGraph) {
	b := newBuilder(g)

	// -----------------------------------------------------------------------
	// (vec2 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFinite(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFinite(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: geom.V2(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (vec2 0 0) (vec2 10 0) (vec2 0 10) :tag "a")
	// (polygon (list outer...) (list hole...) :at (vec2 5 5))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := checkKeywords("polygon", pa, "tag", "at"); err != nil {
			return zygo.SexpNull, err
		}
		tag, at, err := tagAndOffset("polygon", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("polygon requires points or loops")
		}

		var loops []geom.Loop
		if isLoop(pa.positional[0]) {
			for i, a := range pa.positional {
				l, err := toLoop(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polygon: loop %d: %w", i, err)
				}
				loops = append(loops, offsetLoop(l, at))
			}
		} else {
			l, err := pointsToLoop(pa.positional)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
			}
			loops = append(loops, offsetLoop(l, at))
		}

		ref, err := b.add("polygon", b.anonPath("polygon"), "", graph.NodePolygon, nil,
			graph.PolygonData{Loops: loops, Tag: tag})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (rect 100 50 :at (vec2 10 10) :tag "plate")
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := checkKeywords("rect", pa, "tag", "at"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("rect requires width and height, got %d arguments", len(pa.positional))
		}
		w, err := toFinite(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: width: %w", err)
		}
		h, err := toFinite(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: height: %w", err)
		}
		if w <= 0 || h <= 0 {
			return zygo.SexpNull, fmt.Errorf("rect: width and height must be positive, got %g x %g", w, h)
		}
		tag, at, err := tagAndOffset("rect", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		ref, err := b.add("rect", b.anonPath("rect"), "", graph.NodePolygon, nil,
			graph.PolygonData{Loops: []geom.Loop{offsetLoop(geom.Rect(w, h), at)}, Tag: tag})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (ngon 30 6 :at (vec2 50 50))
	// -----------------------------------------------------------------------
	env.AddFunction("ngon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := checkKeywords("ngon", pa, "tag", "at"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("ngon requires radius and sides, got %d arguments", len(pa.positional))
		}
		r, err := toFinite(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ngon: radius: %w", err)
		}
		sides, ok := pa.positional[1].(*zygo.SexpInt)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("ngon: sides: expected integer, got %s", pa.positional[1].SexpString(nil))
		}
		if r <= 0 || sides.Val < 3 {
			return zygo.SexpNull, fmt.Errorf("ngon: need positive radius and at least 3 sides, got %g and %d", r, sides.Val)
		}
		tag, at, err := tagAndOffset("ngon", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		loop := offsetLoop(geom.RegularPolygon(r, int(sides.Val)), at)
		ref, err := b.add("ngon", b.anonPath("ngon"), "", graph.NodePolygon, nil,
			graph.PolygonData{Loops: []geom.Loop{loop}, Tag: tag})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (union a b c)  (subtract a b c)  (intersect a b c)
	// Operands fold left: (subtract a b c) is (a - b) - c.
	// -----------------------------------------------------------------------
	booleans := []struct {
		form string
		op   graph.BooleanOp
	}{
		{"union", graph.OpUnion},
		{"subtract", graph.OpSubtract},
		{"intersect", graph.OpIntersect},
	}
	for _, bo := range booleans {
		bo := bo
		env.AddFunction(bo.form, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 shapes, got %d", bo.form, len(args))
			}
			ids, err := shapes(bo.form, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			ref, err := b.add(bo.form, b.anonPath(bo.form), "", graph.NodeBoolean, ids,
				graph.BooleanData{Op: bo.op})
			if err != nil {
				return zygo.SexpNull, err
			}
			return ref, nil
		})
	}

	// -----------------------------------------------------------------------
	// (inverse a)
	// -----------------------------------------------------------------------
	env.AddFunction("inverse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inverse requires exactly 1 shape, got %d", len(args))
		}
		ids, err := shapes("inverse", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		ref, err := b.add("inverse", b.anonPath("inverse"), "", graph.NodeInverse, ids, graph.InverseData{})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (translate a 10 20)  (translate a (vec2 10 20))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var d geom.Vec2
		switch len(args) {
		case 2:
			v, err := toVec2(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
			}
			d = v
		case 3:
			x, err := toFinite(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: x: %w", err)
			}
			y, err := toFinite(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: y: %w", err)
			}
			d = geom.V2(x, y)
		default:
			return zygo.SexpNull, fmt.Errorf("translate requires a shape and an offset")
		}
		ids, err := shapes("translate", args[:1])
		if err != nil {
			return zygo.SexpNull, err
		}
		ref, err := b.add("translate", b.anonPath("translate"), "", graph.NodeTransform, ids,
			graph.TransformData{Translation: &d})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (rotate a 45)   degrees, counter-clockwise about the origin
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a shape and an angle in degrees")
		}
		deg, err := toFinite(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		ids, err := shapes("rotate", args[:1])
		if err != nil {
			return zygo.SexpNull, err
		}
		ref, err := b.add("rotate", b.anonPath("rotate"), "", graph.NodeTransform, ids,
			graph.TransformData{Rotation: &deg})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (defshape "name" expr)
	// Names a shape and marks it for output.
	// -----------------------------------------------------------------------
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		if shapeName == "" {
			return zygo.SexpNull, fmt.Errorf("defshape: name must not be empty")
		}
		if g.Lookup(shapeName) != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: shape %q already defined", shapeName)
		}
		ids, err := shapes("defshape", args[1:])
		if err != nil {
			return zygo.SexpNull, err
		}

		ref, err := b.add("defshape", "defshape/"+shapeName, shapeName, graph.NodeGroup, ids, graph.GroupData{})
		if err != nil {
			return zygo.SexpNull, err
		}
		g.AddRoot(ref.id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (group "name" a b c)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("group requires a name and at least one shape")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if g.Lookup(groupName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: shape %q already defined", groupName)
		}
		ids, err := shapes("group", args[1:])
		if err != nil {
			return zygo.SexpNull, err
		}

		ref, err := b.add("group", "group/"+groupName, groupName, graph.NodeGroup, ids,
			graph.GroupData{Description: fmt.Sprintf("%d shapes", len(ids))})
		if err != nil {
			return zygo.SexpNull, err
		}
		g.AddRoot(ref.id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}
		n := g.Lookup(shapeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}
		return &sexpShapeRef{id: n.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (settings :snap 0.5 :simplify true)
	// -----------------------------------------------------------------------
	env.AddFunction("settings", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := checkKeywords("settings", pa, "snap", "simplify", "units"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("settings takes keyword arguments only")
		}
		if v, ok := pa.kw["snap"]; ok {
			f, err := toFinite(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: snap: %w", err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("settings: snap must be positive, got %g", f)
			}
			g.Defaults.SnapDistance = f
		}
		if v, ok := pa.kw["simplify"]; ok {
			s, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: simplify: %w", err)
			}
			g.Defaults.Simplify = s
		}
		if v, ok := pa.kw["units"]; ok {
			u, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: units: %w", err)
			}
			g.Defaults.Units = u
		}
		return zygo.SexpNull, nil
	})
}
