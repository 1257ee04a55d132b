// Package branch holds the branch side of the prepare step.
package branch

// Logger is the progress capability the branch manager reports through.
type Logger interface {
	Info(message string)
}

// Manager prepares the release branch. Today it only announces the step.
type Manager struct {
	logger Logger
}

// New creates a branch manager reporting to logger.
func New(logger Logger) *Manager {
	return &Manager{logger: logger}
}

// Prepare logs the start of branch preparation.
func (m *Manager) Prepare() {
	m.logger.Info("Start branch prepare")
}
