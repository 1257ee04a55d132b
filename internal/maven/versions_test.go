package maven

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/ecairns22/mvnprep/internal/logging"
	"github.com/ecairns22/mvnprep/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const setCmd = "mvn " + SetGoal

func newTestVersions(fake *runner.FakeRunner, opts ...Option) *Versions {
	opts = append([]Option{WithExecutable("mvn"), WithLogger(logging.Discard())}, opts...)
	return New(fake, opts...)
}

func TestSetVersionArgs(t *testing.T) {
	args := SetVersionArgs("2-SNAPSHOT")

	require.Len(t, args, 3)
	assert.Equal(t, "org.codehaus.mojo:versions-maven-plugin:2.2:set", args[0])
	assert.Contains(t, args[1], "newVersion=2-SNAPSHOT")
	assert.Contains(t, args[2], "generateBackupPoms=false")
	assert.Equal(t, []string{SetGoal, "-DnewVersion=2-SNAPSHOT", "-DgenerateBackupPoms=false"}, args)
}

func TestSetVersionSuccess(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.SetResponse(setCmd, runner.Response{Stdout: "[INFO] BUILD SUCCESS", Stderr: "some warning"})
	v := newTestVersions(fake, WithDir("/work/app"), WithVerbose(true))

	require.NoError(t, v.SetVersion(context.Background(), "2-SNAPSHOT"))

	call, ok := fake.LastCall()
	require.True(t, ok)
	assert.Equal(t, "mvn", call.Executable)
	assert.Equal(t, SetVersionArgs("2-SNAPSHOT"), call.Args)
	assert.Equal(t, "/work/app", call.Dir)
	assert.Equal(t, "/work/app", v.Dir())
	assert.True(t, call.Verbose)
}

func TestSetVersionFailureMessage(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		stdout  string
		stderr  string
		wantMsg string
	}{
		{"stderr preferred", 1, "[INFO] scanning", "[ERROR] no pom", "[ERROR] no pom"},
		{"stdout when stderr empty", 1, "conflict", "", "conflict"},
		{"stdout when stderr blank", 2, "conflict", " \n\t", "conflict"},
		{"both blank", 1, "", "", ""},
		{"stdout blank keeps stderr", 127, "  ", "", ""},
		{"negative exit", -1, "", "killed", "killed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := runner.NewFakeRunner()
			fake.SetResponse(setCmd, runner.Response{ExitCode: tt.code, Stdout: tt.stdout, Stderr: tt.stderr})
			v := newTestVersions(fake)

			err := v.SetVersion(context.Background(), "2-SNAPSHOT")
			require.Error(t, err)

			var failure *StepFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.code, failure.ExitCode)
			assert.Equal(t, tt.wantMsg, failure.Message)
			require.NotNil(t, failure.Result)
			assert.Equal(t, tt.stdout, failure.Result.Stdout)
		})
	}
}

func TestSetVersionConflictScenario(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.SetFallback(runner.Response{ExitCode: 1, Stdout: "conflict"})
	v := newTestVersions(fake)

	err := v.SetVersion(context.Background(), "2-SNAPSHOT")
	require.Error(t, err)
	assert.Equal(t, "conflict", err.Error())
}

func TestSetVersionZeroExitIgnoresOutput(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.SetFallback(runner.Response{ExitCode: 0, Stdout: "[ERROR] looks bad", Stderr: "FATAL"})
	v := newTestVersions(fake)

	res, err := v.SetVersionResult(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "FATAL", res.Stderr)
}

func TestStepFailureBlankMessage(t *testing.T) {
	err := &StepFailure{ExitCode: 4}
	assert.Equal(t, "maven exited with status 4", err.Error())
}

func TestSetVersionLaunchError(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.SetFallback(runner.Response{Err: os.ErrNotExist})
	v := newTestVersions(fake)

	err := v.SetVersion(context.Background(), "2-SNAPSHOT")
	require.Error(t, err)

	var launchErr *runner.LaunchError
	assert.True(t, errors.As(err, &launchErr))
	var failure *StepFailure
	assert.False(t, errors.As(err, &failure), "launch errors are not step failures")
}

func TestSetVersionEmpty(t *testing.T) {
	fake := runner.NewFakeRunner()
	v := newTestVersions(fake)

	err := v.SetVersion(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyVersion)
	assert.Empty(t, fake.Calls, "no process should be spawned")
}

func TestDefaultExecutableResolved(t *testing.T) {
	v := New(runner.NewFakeRunner())
	assert.Equal(t, runner.HostDefaultExecutable(), v.Executable())
}

func TestSetVersionLogs(t *testing.T) {
	var buf bytes.Buffer
	fake := runner.NewFakeRunner()
	v := New(fake, WithExecutable("mvn"), WithLogger(logging.New(&buf, slog.LevelDebug)))

	require.NoError(t, v.SetVersion(context.Background(), "3.1.0"))

	out := buf.String()
	assert.Contains(t, out, "Updating version(s) to '3.1.0'.")
	assert.Contains(t, out, "-DnewVersion=3.1.0")
}
