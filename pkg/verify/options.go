// pkg/verify/options.go
package verify

import (
	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/fingerprint"
)

// Options configures the verify operation
type Options struct {
	// InputPath is the archive file to verify (required)
	InputPath string

	// VerifyData reads every stored range and fingerprints it
	// When false, only structural validation is performed (faster)
	// Default: false
	VerifyData bool

	// Algorithm used by VerifyData
	// Default: xxh3
	Algorithm fingerprint.Algorithm

	// Verbose enables detailed logging during verification
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool

	// Logger receives verification logs (nil = discard)
	Logger *logrus.Logger
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	alg, err := fingerprint.Parse(string(o.Algorithm))
	if err != nil {
		return err
	}
	o.Algorithm = alg
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
