// Package exec runs external commands for the git commit
// source.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Output runs the named command in dir and returns its
// standard output untouched. On failure standard error
// is folded into the returned error. Pass empty dir to
// use the current working directory.
func Output(
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
		"dir", dir,
	)

	cmd := exec.CommandContext(context.Background(), name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf(
			"%s: %s %s: %s: %w",
			errCtx,
			name,
			strings.Join(arg, " "),
			strings.TrimSpace(stderr.String()),
			err,
		)
	}

	return stdout.String(), nil
}

// Line runs the command like Output and returns the
// first line of its output with surrounding whitespace
// removed.
func Line(
	dir string,
	name string,
	arg ...string,
) (string, error) {
	out, err := Output(dir, name, arg...)
	if err != nil {
		return "", err
	}

	first, _, _ := strings.Cut(out, "\n")

	return strings.TrimSpace(first), nil
}
