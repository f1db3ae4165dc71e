// cmd/gopack/pack_cmd.go

package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-pack/pkg/pack"
)

func init() {
	rootCmd.AddCommand(packCmd())
}

func packCmd() *cobra.Command {
	var inputPath, outputPath string
	var hash hashFlag
	var bufferSize int
	var useGitignore bool
	var verifyDuplicates bool
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a directory into a deduplicated archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Add .tmlp extension if missing
			if outputPath != "" && !strings.HasSuffix(outputPath, ".tmlp") {
				outputPath += ".tmlp"
			}

			opts := &pack.Options{
				InputPath:        inputPath,
				OutputPath:       outputPath,
				Algorithm:        hash.alg,
				BufferSize:       bufferSize * 1024,
				UseGitignore:     useGitignore,
				VerifyDuplicates: verifyDuplicates,
				Verbose:          verbose,
				Quiet:            quiet,
				Logger:           logger,
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

			log("Starting pack...")
			log("  Input:       %s", opts.InputPath)
			log("  Output:      %s", opts.OutputPath)
			log("  Hash:        %s", opts.Algorithm)
			if opts.UseGitignore {
				log("  Mode:        GITIGNORE (skipping ignored paths)")
			}
			if opts.VerifyDuplicates {
				log("  Mode:        VERIFY DUPLICATES (byte-compare on fingerprint match)")
			}
			log("")

			var progressCb pack.ProgressCallback
			var progress *mpb.Progress

			if !quiet && !verbose {
				progressCb, progress = pack.ProgressBarCallback()
			}

			result, err := pack.Pack(opts, progressCb)

			// Wait for progress bars to finish rendering
			if progress != nil {
				progress.Wait()
			}

			if err != nil {
				return err
			}

			if !quiet {
				fmt.Println()
				fmt.Print(pack.FormatSummary(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input directory (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", pack.DefaultOutputPath, "Output archive file")
	cmd.Flags().Var(&hash, "hash", "Fingerprint algorithm ("+algorithmNames()+")")
	cmd.Flags().IntVar(&bufferSize, "buffer", pack.DefaultBufferSize/1024, "Copy buffer size in KiB")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Skip paths matched by .gitignore files")
	cmd.Flags().BoolVar(&verifyDuplicates, "verify-duplicates", false, "Byte-compare files whose fingerprints match")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
