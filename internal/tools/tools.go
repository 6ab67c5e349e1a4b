// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools wraps the external programs the pipeline drives: the
// notedown converter, the static documentation generator, and the
// typesetting engine. Each is modeled as a command with arguments and a
// zero exit code on success; nothing here interprets tool output.
// See docs/ARCHITECTURE § External Tools.
package tools

import (
	"fmt"
	"io"
	"os/exec"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(dir, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(dir, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// Runner is the invocation contract the pipeline stages depend on. Tool is
// the production implementation; tests substitute fakes.
type Runner interface {
	// Name returns the tool's binary name.
	Name() string

	// Available reports whether the tool can be invoked.
	Available() bool

	// Run executes the tool in dir with the given streams and arguments.
	Run(dir string, stdin io.Reader, stdout, stderr io.Writer, args ...string) error
}

// Tool is one external program invoked by the pipeline.
type Tool struct {
	bin  string
	exec executor
}

// New returns a Tool for the given binary name or path.
func New(bin string) *Tool {
	return newTool(bin, defaultExec)
}

func newTool(bin string, exec executor) *Tool {
	return &Tool{bin: bin, exec: exec}
}

// Name returns the tool's binary name.
func (t *Tool) Name() string { return t.bin }

// Available reports whether the binary exists on PATH.
func (t *Tool) Available() bool {
	_, err := t.exec.LookPath(t.bin)
	return err == nil
}

// Run executes the tool in dir (empty for the current directory) with the
// given streams. A non-zero exit is returned as an error naming the tool.
func (t *Tool) Run(dir string, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	if err := t.exec.Run(dir, t.bin, args, stdin, stdout, stderr); err != nil {
		return fmt.Errorf("running %s: %w", t.bin, err)
	}
	return nil
}
