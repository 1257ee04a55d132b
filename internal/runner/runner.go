package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Request describes a single external process invocation.
type Request struct {
	Executable string   // empty = platform default
	Args       []string
	Dir        string   // working directory, empty = current
	Env        []string // extra KEY=VALUE entries appended to the inherited environment
	Verbose    bool     // echo stdout to the console while capturing it
}

// Result is the outcome of a process that ran to completion.
type Result struct {
	Executable string
	ExitCode   int
	Stdout     string
	Stderr     string
	Duration   time.Duration
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// CommandLine renders the executable and arguments as a single string.
func (r Request) CommandLine() string {
	exe := r.Executable
	if exe == "" {
		exe = DefaultExecutable(hostOS)
	}
	if len(r.Args) == 0 {
		return exe
	}
	return exe + " " + strings.Join(r.Args, " ")
}

// LaunchError is returned when the executable could not be started at all.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// OSRunner executes commands via os/exec.
type OSRunner struct {
	// Console receives a copy of stdout for verbose requests. Defaults to os.Stdout.
	Console io.Writer
}

// Run spawns the process and blocks until it exits. Any exit status yields a
// Result; only a failure to start the process returns an error.
func (r *OSRunner) Run(ctx context.Context, req Request) (*Result, error) {
	exe := req.Executable
	if exe == "" {
		exe = DefaultExecutable(hostOS)
	}

	cmd := exec.CommandContext(ctx, exe, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	if req.Verbose {
		console := r.Console
		if console == nil {
			console = os.Stdout
		}
		cmd.Stdout = io.MultiWriter(&outBuf, &echoWriter{w: console})
	}
	cmd.Stderr = &errBuf

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Executable: exe, Err: err}
	}
	err := cmd.Wait()
	elapsed := time.Since(start)

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("waiting for %s: %w", exe, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		Executable: exe,
		ExitCode:   exitCode,
		Stdout:     outBuf.String(),
		Stderr:     errBuf.String(),
		Duration:   elapsed,
	}, nil
}

// echoWriter copies to w until the first write error, then drops the rest.
// It never reports an error, so a broken console cannot cut capture short.
type echoWriter struct {
	w      io.Writer
	broken bool
}

func (e *echoWriter) Write(p []byte) (int, error) {
	if !e.broken {
		if _, err := e.w.Write(p); err != nil {
			e.broken = true
		}
	}
	return len(p), nil
}
