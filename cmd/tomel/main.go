package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/neurlang/melpaint/audio"
	"github.com/neurlang/melpaint/grid"
	"github.com/neurlang/melpaint/synth"
)

var (
	configFile string
	outputFile string
	numMels    int
	writeF16   bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tomel <audio_file>",
	Short: "Convert a WAV or FLAC recording to a mel grid image",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "YAML pipeline configuration")
	f.StringVarP(&outputFile, "output", "o", "", "output PNG file (default <audio_file>.png)")
	f.IntVarP(&numMels, "mels", "m", 0, "number of mel bands (default from config)")
	f.BoolVar(&writeF16, "f16", false, "also write a raw half-precision grid")
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func load(name string) ([]float64, int, error) {
	if strings.HasSuffix(name, ".flac") {
		return audio.LoadFlac(name)
	}
	return audio.LoadWav(name)
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
	if cmd.Flags().Changed("mels") {
		s.NumMels = numMels
	}

	inputFile := args[0]
	if outputFile == "" {
		outputFile = inputFile + ".png"
	}

	samples, rate, err := load(inputFile)
	if err != nil {
		return fmt.Errorf("load audio: %w", err)
	}
	if rate != s.SampleRate {
		logrus.WithFields(logrus.Fields{
			"file_rate":   rate,
			"config_rate": s.SampleRate,
		}).Warn("sample rate differs from configuration, analyzing at the file rate")
		s.SampleRate = rate
	}

	g, err := s.Analyze(samples)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := grid.SavePNG(outputFile, g, s.YReverse); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	if writeF16 {
		if err := grid.SaveF16(strings.TrimSuffix(outputFile, ".png")+".f16", g); err != nil {
			return fmt.Errorf("save grid: %w", err)
		}
	}
	logrus.WithFields(logrus.Fields{
		"file":   outputFile,
		"frames": len(g),
		"bands":  s.NumMels,
	}).Info("wrote grid")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
