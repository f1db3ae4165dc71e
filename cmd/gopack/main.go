// cmd/gopack/main.go
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevel = logLevelFlag{level: logrus.WarnLevel}
	logger   = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:     "gopack",
	Short:   "gopack - deduplicating directory archiver",
	Long:    "gopack packs a directory tree into a single archive, storing identical files once.",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logLevel.level)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Log level: error, warning, info, debug or none")
}
