// cmd/gopack/unpack_cmd.go

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-pack/pkg/pack"
	"github.com/creativeyann17/go-pack/pkg/unpack"
)

func init() {
	rootCmd.AddCommand(unpackCmd())
}

func unpackCmd() *cobra.Command {
	var inputPath, outputPath string
	var bufferSize int
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Extract an archive into a directory",
		Long: `Extract every file of an archive into the output directory.

Existing files at the same paths are overwritten without warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Add extension if missing and the bare name does not exist
			if inputPath != "" && !strings.HasSuffix(inputPath, ".tmlp") {
				if _, err := os.Stat(inputPath); err != nil {
					inputPath += ".tmlp"
				}
			}

			opts := &unpack.Options{
				InputPath:  inputPath,
				OutputPath: outputPath,
				BufferSize: bufferSize * 1024,
				Verbose:    verbose,
				Quiet:      quiet,
				Logger:     logger,
			}

			if err := opts.Validate(); err != nil {
				return err
			}
			if opts.Verbose && !logger.IsLevelEnabled(logrus.InfoLevel) {
				logger.SetLevel(logrus.InfoLevel)
			}

			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Starting unpack...")
			log("  Input:       %s", opts.InputPath)
			log("  Output:      %s", opts.OutputPath)
			log("")

			var progressCb unpack.ProgressCallback
			var progress *mpb.Progress

			if !quiet && !verbose {
				progressCb, progress = unpack.ProgressBarCallback()
			}

			result, err := unpack.Unpack(opts, progressCb)

			if progress != nil {
				progress.Wait()
			}

			if err != nil {
				return err
			}

			if !quiet {
				fmt.Println()
				fmt.Print(unpack.FormatSummary(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", ".", "Output directory")
	cmd.Flags().IntVar(&bufferSize, "buffer", pack.DefaultBufferSize/1024, "Copy buffer size in KiB")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
