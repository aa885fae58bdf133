package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/neurlang/melpaint/audio"
	"github.com/neurlang/melpaint/grid"
	"github.com/neurlang/melpaint/synth"
)

var (
	configFile  string
	outputFile  string
	seed        int64
	iterations  int
	bits        int
	noNormalize bool
	stages      bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "towav <grid_file>",
	Short: "Render a painted mel grid to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "YAML pipeline configuration")
	f.StringVarP(&outputFile, "output", "o", "", "output WAV file (default <grid_file>.wav)")
	f.Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	f.IntVarP(&iterations, "iterations", "n", 0, "Griffin-Lim iterations (default from config)")
	f.IntVar(&bits, "bits", 16, "bits per sample, 8, 16 or 24")
	f.BoolVar(&noNormalize, "no-normalize", false, "write the raw waveform without RMS normalization")
	f.BoolVar(&stages, "stages", false, "also write the linear and harmonic spectrograms as PNG")
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadGrid(name string, reverse bool) ([][]float64, error) {
	if strings.HasSuffix(name, ".f16") {
		return grid.LoadF16(name)
	}
	return grid.LoadImage(name, reverse)
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	s := synth.New()
	if configFile != "" {
		var err error
		if s, err = synth.LoadConfig(configFile); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("iterations") {
		s.Iterations = iterations
	}
	switch {
	case cmd.Flags().Changed("seed"):
		s.Seed = seed
	case s.Seed == 0:
		s.Seed = time.Now().UnixNano()
	}

	inputFile := args[0]
	if outputFile == "" {
		outputFile = inputFile + ".wav"
	}

	g, err := loadGrid(inputFile, s.YReverse)
	if err != nil {
		return fmt.Errorf("load grid: %w", err)
	}
	if len(g) == 0 {
		return fmt.Errorf("load grid: %s has no columns", inputFile)
	}
	logrus.WithFields(logrus.Fields{
		"file":   inputFile,
		"width":  len(g),
		"height": len(g[0]),
		"seed":   s.Seed,
	}).Info("rendering grid")

	res, err := s.Render(g)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if stages {
		// linear spectrograms have bin 0 at the bottom like the grid
		if err := grid.SavePNG(outputFile+".linear.png", res.Linear, true); err != nil {
			return err
		}
		if err := grid.SavePNG(outputFile+".harmonic.png", res.Harmonic, true); err != nil {
			return err
		}
	}

	wave := res.Wave
	if !noNormalize {
		wave = audio.Normalize(wave)
	}
	if err := audio.SaveWav(outputFile, wave, s.SampleRate, bits); err != nil {
		return fmt.Errorf("save wav: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":    outputFile,
		"samples": len(wave),
		"seconds": float64(len(wave)) / float64(s.SampleRate),
	}).Info("wrote wave")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
