package maven

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ecairns22/mvnprep/internal/runner"
)

// SetGoal is the fully qualified versions-maven-plugin goal that rewrites
// project versions. Changing it changes which Maven operation runs.
const SetGoal = "org.codehaus.mojo:versions-maven-plugin:2.2:set"

// ErrEmptyVersion is returned when no version is given.
var ErrEmptyVersion = errors.New("new version must not be empty")

// StepFailure is returned when Maven ran but exited non-zero.
type StepFailure struct {
	ExitCode int
	Message  string
	Result   *runner.Result
}

func (e *StepFailure) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("maven exited with status %d", e.ExitCode)
	}
	return e.Message
}

// Versions sets project versions by invoking Maven.
type Versions struct {
	runner     runner.CommandRunner
	executable string
	verbose    bool
	dir        string
	log        *slog.Logger
}

// Option configures Versions.
type Option func(*Versions)

// WithExecutable sets the Maven executable path. Empty keeps the platform default.
func WithExecutable(path string) Option {
	return func(v *Versions) { v.executable = path }
}

// WithVerbose echoes Maven's stdout to the console.
func WithVerbose(verbose bool) Option {
	return func(v *Versions) { v.verbose = verbose }
}

// WithDir runs Maven in the given project directory.
func WithDir(dir string) Option {
	return func(v *Versions) { v.dir = dir }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Versions) { v.log = log }
}

// New creates a version setter using r to spawn Maven.
func New(r runner.CommandRunner, opts ...Option) *Versions {
	v := &Versions{runner: r, log: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	if v.executable == "" {
		v.executable = runner.HostDefaultExecutable()
	}
	return v
}

// Executable returns the resolved Maven executable.
func (v *Versions) Executable() string {
	return v.executable
}

// Dir returns the directory Maven runs in. Empty means the current directory.
func (v *Versions) Dir() string {
	return v.dir
}

// SetVersionArgs builds the Maven argument vector for setting version.
func SetVersionArgs(version string) []string {
	return []string{
		SetGoal,
		"-DnewVersion=" + version,
		"-DgenerateBackupPoms=false",
	}
}

// Request returns the runner request SetVersion would issue.
func (v *Versions) Request(version string) runner.Request {
	return runner.Request{
		Executable: v.executable,
		Args:       SetVersionArgs(version),
		Dir:        v.dir,
		Verbose:    v.verbose,
	}
}

// SetVersion runs the versions:set goal. It returns *StepFailure if Maven
// exits non-zero and wraps *runner.LaunchError if Maven cannot be started.
func (v *Versions) SetVersion(ctx context.Context, version string) error {
	_, err := v.SetVersionResult(ctx, version)
	return err
}

// SetVersionResult is SetVersion that also returns the captured result when
// Maven ran, whatever its exit status.
func (v *Versions) SetVersionResult(ctx context.Context, version string) (*runner.Result, error) {
	if strings.TrimSpace(version) == "" {
		return nil, ErrEmptyVersion
	}

	v.log.Info(fmt.Sprintf("Updating version(s) to '%s'.", version))

	req := v.Request(version)
	v.log.Debug("running maven", "cmd", req.CommandLine(), "dir", req.Dir)

	res, err := v.runner.Run(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("setting version %s: %w", version, err)
	}

	if res.ExitCode != 0 {
		return res, &StepFailure{
			ExitCode: res.ExitCode,
			Message:  FailureMessage(res.Stdout, res.Stderr),
			Result:   res,
		}
	}
	return res, nil
}

// FailureMessage picks the diagnostic text for a failed run. Not every Maven
// failure is written to stderr, so stdout is used when stderr is blank.
func FailureMessage(stdout, stderr string) string {
	if strings.TrimSpace(stderr) == "" && strings.TrimSpace(stdout) != "" {
		return stdout
	}
	return stderr
}
