// Package doctor performs startup environment checks for the cmajor
// toolkit: model-file discovery, output directory access, and a MIDI
// round-trip self-test.
package doctor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/soundfold/cmajor/pkg/scale"
	"github.com/soundfold/cmajor/pkg/sequence"
)

// Check is the outcome of a single environment probe.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Report aggregates all checks for one doctor run.
type Report struct {
	Checks []Check `json:"checks"`
}

// Ready reports whether every check passed.
func (r Report) Ready() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Options configures a doctor run.
type Options struct {
	// ModelDir is searched recursively for generation model weights.
	ModelDir string
	// OutputDir is where rendered MIDI files will be written.
	OutputDir string
}

var modelExtensions = []string{".ckpt", ".bin", ".safetensors"}

// FindModelFiles walks dir for model weight files, skipping LoRA adapter
// weights, which cannot be loaded standalone.
func FindModelFiles(dir string) ([]string, error) {
	var found []string
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.Contains(name, "adapter_model") {
			return nil
		}
		for _, ext := range modelExtensions {
			if strings.HasSuffix(name, ext) {
				found = append(found, path)
				break
			}
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return found, nil
}

func checkModelFiles(dir string) Check {
	c := Check{Name: "model files"}
	files, err := FindModelFiles(dir)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	if len(files) == 0 {
		c.Detail = fmt.Sprintf("no model files under %s; the app can download one on demand", dir)
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("found %d model file(s), e.g. %s", len(files), filepath.Base(files[0]))
	return c
}

func checkOutputDir(dir string) Check {
	c := Check{Name: "output directory"}
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.Detail = fmt.Sprintf("cannot create %s: %v", dir, err)
		return c
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		c.Detail = fmt.Sprintf("cannot write to %s: %v", dir, err)
		return c
	}
	os.Remove(probe)
	c.OK = true
	c.Detail = dir + " is writable"
	return c
}

// checkRoundTrip renders the demo progression to MIDI, decodes it back,
// and verifies every note lands in C major.
func checkRoundTrip() Check {
	c := Check{Name: "MIDI round trip"}

	f, err := scale.NewFilter(scale.CMajor)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	data, err := sequence.ToSMF(sequence.CMajorDemo())
	if err != nil {
		c.Detail = "render failed: " + err.Error()
		return c
	}
	notes, err := sequence.Decode(data)
	if err != nil {
		c.Detail = "decode failed: " + err.Error()
		return c
	}
	if len(notes) == 0 {
		c.Detail = "decoded no notes from demo sequence"
		return c
	}
	if ok, bad := sequence.DecodedInScale(notes, f); !ok {
		c.Detail = fmt.Sprintf("note %s (MIDI %d) escaped C major", bad.Pitch.Name(), bad.Pitch)
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("%d notes rendered, decoded and verified in C major", len(notes))
	return c
}

// Run executes all environment checks and returns the aggregated report.
func Run(opts Options) Report {
	if opts.ModelDir == "" {
		opts.ModelDir = "."
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "demo_output"
	}
	return Report{Checks: []Check{
		checkModelFiles(opts.ModelDir),
		checkOutputDir(opts.OutputDir),
		checkRoundTrip(),
	}}
}
