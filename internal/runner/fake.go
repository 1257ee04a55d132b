package runner

import (
	"context"
	"strings"
	"sync"
)

// Call records a single invocation of a command.
type Call struct {
	Executable string
	Args       []string
	Dir        string
	Verbose    bool
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Executable
	}
	return c.Executable + " " + strings.Join(c.Args, " ")
}

// Response is a pre-configured response for a command pattern.
type Response struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // returned as a launch failure when set
}

// FakeRunner records command calls and returns pre-configured responses.
// Exported for use by maven/orchestrator tests.
type FakeRunner struct {
	mu        sync.Mutex
	Calls     []Call
	responses map[string]Response // key: "executable arg1 arg2..."
	fallback  Response
}

// NewFakeRunner creates a FakeRunner whose fallback is a silent zero exit.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]Response),
	}
}

// SetResponse configures a response for a specific command string.
func (f *FakeRunner) SetResponse(cmd string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = resp
}

// SetFallback sets the default response for unmatched commands.
func (f *FakeRunner) SetFallback(resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = resp
}

// Run records the call and returns the matching response.
func (f *FakeRunner) Run(_ context.Context, req Request) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exe := req.Executable
	if exe == "" {
		exe = DefaultExecutable(hostOS)
	}
	call := Call{Executable: exe, Args: append([]string(nil), req.Args...), Dir: req.Dir, Verbose: req.Verbose}
	f.Calls = append(f.Calls, call)

	resp := f.match(call)
	if resp.Err != nil {
		return nil, &LaunchError{Executable: exe, Err: resp.Err}
	}
	return &Result{
		Executable: exe,
		ExitCode:   resp.ExitCode,
		Stdout:     resp.Stdout,
		Stderr:     resp.Stderr,
	}, nil
}

func (f *FakeRunner) match(call Call) Response {
	if resp, ok := f.responses[call.String()]; ok {
		return resp
	}

	// Try matching just the executable with first arg for broader matches
	if len(call.Args) > 0 {
		if resp, ok := f.responses[call.Executable+" "+call.Args[0]]; ok {
			return resp
		}
	}

	if resp, ok := f.responses[call.Executable]; ok {
		return resp
	}
	return f.fallback
}

// Called returns true if a command matching the prefix was recorded.
func (f *FakeRunner) Called(prefix string) bool {
	return f.CallCount(prefix) > 0
}

// CallCount returns the number of times a command matching the prefix was called.
func (f *FakeRunner) CallCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call, or false if none were recorded.
func (f *FakeRunner) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return Call{}, false
	}
	return f.Calls[len(f.Calls)-1], true
}

// Reset clears all recorded calls.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

var _ CommandRunner = (*FakeRunner)(nil)
var _ CommandRunner = (*OSRunner)(nil)
