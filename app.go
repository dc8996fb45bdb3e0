package main

import (
	"fmt"
	"log"
	"math"

	"github.com/chazu/csg2d/pkg/engine"
	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/graph"
	"github.com/chazu/csg2d/pkg/kernel"
	"github.com/chazu/csg2d/pkg/kernel/bsp"
	"github.com/chazu/csg2d/pkg/kernel/polyclip"
	"github.com/chazu/csg2d/pkg/kernel/sdfx"
	"github.com/chazu/csg2d/pkg/trace"
)

// colorPalette is a default palette used to assign distinct colors to shapes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script pipeline: source -> engine -> shape graph -> trace.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel

	// Command-line overrides for the script's settings; zero means unset.
	snap     float64
	simplify bool
}

// OutlineData is the JSON-serializable outline format written by the CLI.
type OutlineData struct {
	Loops    []geom.Loop `json:"loops"`
	Tags     []string    `json:"tags,omitempty"`
	PartName string      `json:"partName"`
	Color    string      `json:"color"`
	Area     float64     `json:"area"`
}

// EvalErrorData is a JSON-serializable evaluation error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Outlines []OutlineData   `json:"outlines"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine and the BSP kernel.
func NewApp() *App {
	return NewAppWithKernel(bsp.New())
}

// NewAppWithKernel creates an App that traces with k.
func NewAppWithKernel(k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
	}
}

// kernelByName returns the boolean kernel selected on the command line.
func kernelByName(name string) (kernel.Kernel, error) {
	switch name {
	case "", "bsp":
		return bsp.New(), nil
	case "polyclip":
		return polyclip.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q, expected bsp or polyclip", name)
}

// Override replaces the script's snap distance (when positive) and turns on
// simplification (when set).
func (a *App) Override(snap float64, simplify bool) {
	a.snap = snap
	a.simplify = simplify
}

// build evaluates source into a validated shape graph. A nil graph means
// evaluation or validation failed and result holds the reasons.
func (a *App) build(source string, result *EvalResult) *graph.ShapeGraph {
	// Step 1: Evaluate the Lisp source into a shape graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil
	}

	if a.snap > 0 {
		g.Defaults.SnapDistance = a.snap
	}
	if a.simplify {
		g.Defaults.Simplify = true
	}

	// Step 2: Validate structure and geometry.
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return nil
	}
	return g
}

// Evaluate takes Lisp source and returns outline data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Outlines: []OutlineData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	g := a.build(source, &result)
	if g == nil {
		return result
	}

	// Step 3: Trace the shape graph into outlines.
	outlines, err := trace.Trace(g, a.kernel)
	if err != nil {
		log.Printf("Trace error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tracing failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel outlines to the output format.
	for i, o := range outlines {
		result.Outlines = append(result.Outlines, OutlineData{
			Loops:    o.Loops,
			Tags:     o.Tags,
			PartName: o.PartName,
			Color:    colorPalette[i%len(colorPalette)],
			Area:     o.Area(),
		})
	}

	return result
}

// toOutlines converts result outlines back to kernel outlines for rendering.
func (r EvalResult) toOutlines() []*kernel.Outline {
	out := make([]*kernel.Outline, len(r.Outlines))
	for i, o := range r.Outlines {
		out[i] = &kernel.Outline{Loops: o.Loops, Tags: o.Tags, PartName: o.PartName}
	}
	return out
}

// --- Oracle check ---

// checkTolerance is the oracle distance under which a sample point counts as
// lying on the boundary and is skipped.
const checkTolerance = 1e-6

// maxCheckSamples bounds the number of grid points sampled per shape.
const maxCheckSamples = 4_000_000

// Mismatch is a sample point where the kernel and the oracle disagree.
type Mismatch struct {
	Shape  string    `json:"shape"`
	Point  geom.Vec2 `json:"point"`
	Kernel bool      `json:"kernel"`
	Oracle bool      `json:"oracle"`
}

// CheckResult summarizes a membership comparison against the sdfx oracle.
type CheckResult struct {
	Samples    int             `json:"samples"`
	Skipped    int             `json:"skipped"`
	Mismatches []Mismatch      `json:"mismatches"`
	Errors     []EvalErrorData `json:"errors"`
	Warnings   []EvalErrorData `json:"warnings"`
}

// OK reports whether the check ran and found no disagreement.
func (r CheckResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Mismatches) == 0
}

// Check evaluates source and samples every shape on a grid of the given
// step, comparing the app's kernel against the sdfx distance oracle.
func (a *App) Check(source string, step float64) CheckResult {
	result := CheckResult{
		Mismatches: []Mismatch{},
		Errors:     []EvalErrorData{},
		Warnings:   []EvalErrorData{},
	}
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		result.Errors = append(result.Errors, EvalErrorData{
			Message: fmt.Sprintf("step must be positive, got %v", step),
		})
		return result
	}

	var er EvalResult
	g := a.build(source, &er)
	result.Errors = append(result.Errors, er.Errors...)
	result.Warnings = append(result.Warnings, er.Warnings...)
	if g == nil {
		return result
	}

	oracle := sdfx.New()
	tk := trace.New(g, a.kernel)
	to := trace.New(g, oracle)
	for _, n := range g.Shapes() {
		if err := a.checkShape(n, tk, to, oracle, step, &result); err != nil {
			log.Printf("Check error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{
				Message: fmt.Sprintf("checking %s: %v", n.DisplayName(), err),
			})
		}
	}
	return result
}

func (a *App) checkShape(n *graph.Node, tk, to *trace.Tracer, oracle *sdfx.SdfxKernel, step float64, result *CheckResult) error {
	ks, err := tk.Solid(n)
	if err != nil {
		return err
	}
	osol, err := to.Solid(n)
	if err != nil {
		return err
	}

	min, max := ks.BoundingBox()
	omin, omax := osol.BoundingBox()
	min = geom.V2(math.Min(min.X, omin.X)-2*step, math.Min(min.Y, omin.Y)-2*step)
	max = geom.V2(math.Max(max.X, omax.X)+2*step, math.Max(max.Y, omax.Y)+2*step)

	nx := int((max.X-min.X)/step) + 1
	ny := int((max.Y-min.Y)/step) + 1
	if nx*ny > maxCheckSamples {
		return fmt.Errorf("%dx%d samples exceed %d, raise the step", nx, ny, maxCheckSamples)
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			p := geom.V2(min.X+float64(i)*step, min.Y+float64(j)*step)
			d := oracle.Distance(osol, p)
			if math.Abs(d) < checkTolerance {
				result.Skipped++
				continue
			}
			result.Samples++
			want := d < 0
			if got := a.kernel.Contains(ks, p); got != want {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Shape:  n.DisplayName(),
					Point:  p,
					Kernel: got,
					Oracle: want,
				})
			}
		}
	}
	return nil
}
