// Package detector inspects the process environment to pick the operating mode.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Environment describes how the process is being run.
type Environment struct {
	// CI is set when a CI system is detected. It selects the working-directory layout.
	CI bool
	// Interactive is set when stdout is a terminal outside CI.
	Interactive bool
}

// IsCI reports whether CI is set to "true" or "1".
func IsCI(getenv func(string) string) bool {
	ci := getenv("CI")
	return ci == "true" || ci == "1"
}

// DetectEnvironment inspects the real process environment.
func DetectEnvironment() Environment {
	return detect(os.Getenv, term.IsTerminal(int(os.Stdout.Fd()))) //nolint:gosec // fd fits in int
}

func detect(getenv func(string) string, stdoutTTY bool) Environment {
	ci := IsCI(getenv)
	return Environment{
		CI:          ci,
		Interactive: stdoutTTY && !ci,
	}
}
