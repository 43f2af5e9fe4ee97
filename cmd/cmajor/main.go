// Package main is the entry point for the cmajor CLI
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soundfold/cmajor/pkg/api"
	"github.com/soundfold/cmajor/pkg/doctor"
	"github.com/soundfold/cmajor/pkg/scale"
	"github.com/soundfold/cmajor/pkg/sequence"
	"github.com/soundfold/cmajor/pkg/tui"
	"github.com/soundfold/cmajor/pkg/vocab"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	scaleName  string
	lowPitch   int
	highPitch  int
	modelDir   string
	outputDir  string
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cmajor",
	Short: "Scale-constrained music generation toolkit",
	Long: `cmajor builds and inspects scale-constrained pitch-token sets for
music generation, renders demonstration sequences to MIDI, and checks
the surrounding environment.

Examples:
  cmajor check
  cmajor demo -o demo_output/c_major_demo.mid
  cmajor verify
  cmajor filter --scale "C major" --low 24 --high 96
  cmajor tui
  cmajor serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check dependencies and environment",
	RunE:  runCheck,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render the C - F - G - C demo progression to a MIDI file",
	RunE:  runDemo,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Render a scale run, decode it, and verify every pitch is in scale",
	RunE:  runVerify,
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the filtered pitch-token vocabulary for a scale",
	RunE:  runFilter,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive scale explorer",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&scaleName, "scale", "s", "C major", "Scale, e.g. \"C major\", \"A minor\", \"Eb blues\"")

	// check command
	checkCmd.Flags().StringVarP(&modelDir, "model-dir", "m", ".", "Directory scanned for model files")
	checkCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "demo_output", "Directory for rendered MIDI files")

	// demo command
	demoCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// verify command
	verifyCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the verification MIDI to this path")

	// filter command
	filterCmd.Flags().IntVar(&lowPitch, "low", -1, "Lowest allowed pitch (inclusive), -1 for unbounded")
	filterCmd.Flags().IntVar(&highPitch, "high", -1, "Highest allowed pitch (inclusive), -1 for unbounded")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getFilter() (*scale.Filter, error) {
	s, err := scale.ByName(scaleName)
	if err != nil {
		return nil, err
	}
	if lowPitch < 0 && highPitch < 0 {
		return scale.NewFilter(s)
	}
	low, high := 0, int(scale.MaxPitch)
	if lowPitch >= 0 {
		low = lowPitch
	}
	if highPitch >= 0 {
		high = highPitch
	}
	if low > int(scale.MaxPitch) || high > int(scale.MaxPitch) {
		return nil, fmt.Errorf("%w: range %d..%d outside MIDI pitch domain", scale.ErrConfig, low, high)
	}
	r := scale.Range{Low: scale.Pitch(low), High: scale.Pitch(high)}
	return scale.NewRangedFilter(s, &r)
}

func getOutputPath(defaultName string) string {
	if outputFile != "" {
		return outputFile
	}
	return filepath.Join("demo_output", defaultName)
}

func writeMIDI(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func runCheck(cmd *cobra.Command, args []string) error {
	report := doctor.Run(doctor.Options{ModelDir: modelDir, OutputDir: outputDir})

	for _, c := range report.Checks {
		mark := "✗"
		if c.OK {
			mark = "✓"
		}
		fmt.Printf("  %s %-16s %s\n", mark, c.Name, c.Detail)
	}

	if !report.Ready() {
		return errors.New("environment not ready: fix the failed checks before generating")
	}
	fmt.Println("\nAll checks passed. Ready to generate.")
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	seq := sequence.CMajorDemo()
	data, err := sequence.ToSMF(seq)
	if err != nil {
		return err
	}

	output := getOutputPath("c_major_demo.mid")
	if err := writeMIDI(output, data); err != nil {
		return err
	}

	fmt.Println("Rendered C - F - G - C progression:")
	for _, n := range seq.Notes {
		fmt.Printf("  beat %d: %-4s (MIDI %d)\n", n.Beat, n.Pitch.Name(), n.Pitch)
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	f, err := getFilter()
	if err != nil {
		return err
	}

	seq := sequence.VerifyScale()
	data, err := sequence.ToSMF(seq)
	if err != nil {
		return err
	}

	notes, err := sequence.Decode(data)
	if err != nil {
		return err
	}

	fmt.Printf("Verifying %d decoded notes against %s:\n", len(notes), f.Scale().Name())
	failed := false
	for _, n := range notes {
		mark := "✓"
		if !f.Allows(n.Pitch) {
			mark = "✗"
			failed = true
		}
		fmt.Printf("  %s %-4s (MIDI %d)\n", mark, n.Pitch.Name(), n.Pitch)
	}

	if outputFile != "" {
		if err := writeMIDI(outputFile, data); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outputFile)
	}

	if failed {
		return fmt.Errorf("verification failed: notes escaped %s", f.Scale().Name())
	}
	fmt.Println("All notes in scale.")
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	f, err := getFilter()
	if err != nil {
		return err
	}

	v := vocab.Full(0)
	kept := v.Filter(f)

	fmt.Printf("Scale: %s\n", f.Scale())
	if r, ok := f.Range(); ok {
		fmt.Printf("Range: %s..%s (MIDI %d..%d)\n", r.Low.Name(), r.High.Name(), r.Low, r.High)
	} else {
		fmt.Println("Range: unbounded")
	}
	fmt.Printf("Allowed: %d of %d pitch tokens (%.1f%% filtered out)\n",
		len(kept), v.Len(), 100*scale.ReductionRatio(v.Len(), len(kept)))

	for _, tok := range kept {
		p, _ := v.PitchFor(tok)
		fmt.Printf("  token %3d  %-4s (MIDI %d)\n", tok, p.Name(), p)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
