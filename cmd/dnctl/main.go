// cmd/dnctl/main.go
package main

import (
	"fmt"
	"os"

	apperrors "dn-client/internal/common/errors"
)

// Exit codes: user errors are fixable by changing the input, system errors
// are not.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		msg := err.Error()
		if apperrors.CodeOf(err) != "" {
			msg = apperrors.UserMessage(err)
		}
		fmt.Fprintln(os.Stderr, "Error:", msg)
		return exitCode(err)
	}
	return exitSuccess
}

func exitCode(err error) int {
	code := apperrors.CodeOf(err)
	if code == "" {
		// usage and configuration errors
		return exitUserError
	}
	switch apperrors.GetErrorCategory(code) {
	case "VALIDATION", "LOGICAL", "PRECONDITION":
		return exitUserError
	default:
		return exitSysError
	}
}
