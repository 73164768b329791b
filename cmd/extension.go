package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// An rb-<name> binary in the PATH adds the <name> subcommand. It reads the
// session, configuration and history locations from these variables, so that
// it works on the same books as rb.
const (
	EnvSession = "RENTBOOK_SESSION"
	EnvConfig  = "RENTBOOK_CONFIG"
	EnvHistory = "RENTBOOK_HISTORY"
	EnvVerbose = "RENTBOOK_VERBOSE"
)

// extensionEnv is the environment of an extension: the current one plus the
// locations of the books.
func extensionEnv() []string {
	return append(os.Environ(),
		EnvSession+"="+*sessionFile,
		EnvConfig+"="+*configFile,
		EnvHistory+"="+*historyFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
}

// RunExtension runs the rb-<subcommand> binary with args. found is false when
// there is no such binary, otherwise code is its exit code.
func RunExtension(subcommand string, args []string) (found bool, code int) {
	name := "rb-" + subcommand
	path, err := exec.LookPath(name)
	if err != nil {
		if *Verbose {
			log.Printf("Warning: no %q in PATH: %v", name, err)
		}
		return false, 0
	}

	ext := exec.Command(path, args...)
	ext.Stdin, ext.Stdout, ext.Stderr = os.Stdin, os.Stdout, os.Stderr
	ext.Env = extensionEnv()

	var exit *exec.ExitError
	switch err := ext.Run(); {
	case err == nil:
		return true, 0
	case errors.As(err, &exit):
		return true, exit.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "Error: running %s: %v\n", name, err)
		return true, 1
	}
}
