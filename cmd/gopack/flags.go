// cmd/gopack/flags.go
package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/creativeyann17/go-pack/internal/fingerprint"
)

var (
	_ pflag.Value = (*logLevelFlag)(nil)
	_ pflag.Value = (*hashFlag)(nil)
)

// logLevelFlag implements pflag.Value for --log-level
type logLevelFlag struct {
	level logrus.Level
	name  string
}

func (f *logLevelFlag) String() string {
	if f.name == "" {
		return "warning"
	}
	return f.name
}

func (f *logLevelFlag) Set(s string) error {
	name := strings.ToLower(s)
	switch name {
	case "none":
		// Nothing the engine logs is at panic level
		f.level = logrus.PanicLevel
	case "error", "warning", "info", "debug":
		lvl, err := logrus.ParseLevel(name)
		if err != nil {
			return err
		}
		f.level = lvl
	default:
		return fmt.Errorf("invalid log level %q (want error, warning, info, debug or none)", s)
	}
	f.name = name
	return nil
}

func (f *logLevelFlag) Type() string {
	return "level"
}

// hashFlag implements pflag.Value for --hash
type hashFlag struct {
	alg fingerprint.Algorithm
}

func (f *hashFlag) String() string {
	if f.alg == "" {
		return string(fingerprint.Default)
	}
	return string(f.alg)
}

func (f *hashFlag) Set(s string) error {
	alg, err := fingerprint.Parse(s)
	if err != nil {
		return err
	}
	f.alg = alg
	return nil
}

func (f *hashFlag) Type() string {
	return "algorithm"
}

// algorithmNames lists the supported algorithms for help texts
func algorithmNames() string {
	var names []string
	for _, a := range fingerprint.Algorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
