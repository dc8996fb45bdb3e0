package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/argp"
)

// Eval evaluates a script and writes its outlines.
type Eval struct {
	Kernel   string  `short:"k" default:"bsp" desc:"Boolean kernel, bsp or polyclip"`
	Snap     float64 `default:"0" desc:"Loop reconstruction snap distance, 0 uses the script setting"`
	Simplify bool    `desc:"Drop colinear vertices from output loops"`
	Output   string  `short:"o" desc:"Output file, .json or .png (default JSON on stdout)"`
	Scale    float64 `default:"4" desc:"Pixels per unit for PNG output"`
	Input    string  `index:"0" desc:"Input script"`
}

// Check compares kernel membership against the sdfx oracle.
type Check struct {
	Kernel string  `short:"k" default:"bsp" desc:"Boolean kernel, bsp or polyclip"`
	Snap   float64 `default:"0" desc:"Loop reconstruction snap distance, 0 uses the script setting"`
	Step   float64 `short:"s" default:"1" desc:"Sampling grid step"`
	Input  string  `index:"0" desc:"Input script"`
}

func main() {
	log.SetFlags(0)

	root := argp.NewCmd(&Eval{}, "2D constructive solid geometry with BSP trees")
	root.AddCmd(&Check{}, "check", "Compare kernel membership against the sdfx oracle")
	root.Parse()
	root.PrintHelp()
}

// newApp reads the input script and builds an app for the chosen kernel.
func newApp(input, kernelName string, snap float64, simplify bool) (*App, string, error) {
	if input == "" {
		return nil, "", argp.ShowUsage
	}
	src, err := os.ReadFile(input)
	if err != nil {
		return nil, "", err
	}
	k, err := kernelByName(kernelName)
	if err != nil {
		return nil, "", err
	}
	app := NewAppWithKernel(k)
	app.Override(snap, simplify)
	return app, string(src), nil
}

func reportErrors(input string, errs, warnings []EvalErrorData) {
	for _, w := range warnings {
		log.Printf("%s: warning: %s", input, w.Message)
	}
	for _, e := range errs {
		if e.Line > 0 {
			log.Printf("%s:%d:%d: %s", input, e.Line, e.Col, e.Message)
		} else {
			log.Printf("%s: %s", input, e.Message)
		}
	}
}

func (cmd *Eval) Run() error {
	app, src, err := newApp(cmd.Input, cmd.Kernel, cmd.Snap, cmd.Simplify)
	if err != nil {
		return err
	}

	result := app.Evaluate(src)
	reportErrors(cmd.Input, result.Errors, result.Warnings)
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: %d error(s)", cmd.Input, len(result.Errors))
	}

	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(cmd.Output)); ext {
	case ".png":
		colors := make([]string, len(result.Outlines))
		for i, o := range result.Outlines {
			colors[i] = o.Color
		}
		if err := RenderPNG(&buf, result.toOutlines(), colors, cmd.Scale); err != nil {
			return err
		}
	case "", ".json":
		if err := writeJSON(&buf, result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("output extension must be .json or .png, got %q", ext)
	}
	return writeOutput(cmd.Output, buf.Bytes())
}

func (cmd *Check) Run() error {
	app, src, err := newApp(cmd.Input, cmd.Kernel, cmd.Snap, false)
	if err != nil {
		return err
	}

	result := app.Check(src, cmd.Step)
	reportErrors(cmd.Input, result.Errors, result.Warnings)
	for _, m := range result.Mismatches {
		log.Printf("%s: mismatch at %v: kernel=%v oracle=%v", m.Shape, m.Point, m.Kernel, m.Oracle)
	}
	fmt.Printf("%d samples, %d on boundary, %d mismatches\n", result.Samples, result.Skipped, len(result.Mismatches))
	if !result.OK() {
		return fmt.Errorf("%s: check failed", cmd.Input)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// writeOutput writes b to the named file, or stdout when name is empty.
func writeOutput(name string, b []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(name, b, 0o644)
}
