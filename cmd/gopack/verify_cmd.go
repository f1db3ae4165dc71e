// cmd/gopack/verify_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pack/pkg/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	var inputPath string
	var verifyData bool
	var hash hashFlag
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify archive integrity",
		Long: `Verify the integrity of an archive without extracting it.

By default, performs structural validation (header, index, content ranges, paths).
Use --data to also read every stored range and detect content stored twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &verify.Options{
				InputPath:  inputPath,
				VerifyData: verifyData,
				Algorithm:  hash.alg,
				Verbose:    verbose,
				Quiet:      quiet,
				Logger:     logger,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Verifying archive: %s", inputPath)
			if verifyData {
				log("Mode: Full data integrity check (%s)", opts.Algorithm)
			} else {
				log("Mode: Structural validation only")
			}
			log("")

			var progressCb verify.ProgressCallback
			if !quiet && !verbose {
				lastEntry := ""
				progressCb = func(event verify.ProgressEvent) {
					switch event.Type {
					case verify.EventStart:
						fmt.Printf("Checking %d entries...\n", event.Total)
					case verify.EventEntryVerify:
						if event.Current%100 == 0 || event.Current == event.Total {
							fmt.Printf("\r  Progress: %d/%d entries", event.Current, event.Total)
						}
						lastEntry = event.FilePath
					case verify.EventComplete:
						fmt.Printf("\r  Progress: %d/%d entries\n", event.Current, event.Total)
					case verify.EventError:
						fmt.Printf("\n  Error in: %s\n", lastEntry)
					}
				}
			} else if verbose {
				progressCb = func(event verify.ProgressEvent) {
					switch event.Type {
					case verify.EventStart:
						fmt.Printf("Starting verification: %s\n", event.Message)
					case verify.EventEntryVerify:
						fmt.Printf("  [%d/%d] %s\n", event.Current, event.Total, event.FilePath)
					case verify.EventComplete:
						fmt.Printf("Verification complete\n")
					}
				}
			}

			result, err := verify.Verify(opts, progressCb)
			if err != nil && result == nil {
				return err
			}

			fmt.Println()
			fmt.Print(result.Summary())

			if !result.IsValid() {
				return fmt.Errorf("archive verification failed")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().BoolVar(&verifyData, "data", false, "Read every stored range and fingerprint it")
	cmd.Flags().Var(&hash, "hash", "Fingerprint algorithm for --data ("+algorithmNames()+")")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
