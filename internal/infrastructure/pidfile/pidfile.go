package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire when a live daemon owns the file
var ErrAlreadyRunning = errors.New("daemon is already running")

// PIDFile keeps a single officesim daemon per PID file path
type PIDFile struct {
	path string
}

// New creates a PID file manager; an empty path disables it
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the managed file path
func (p *PIDFile) Path() string { return p.path }

// Acquire claims the PID file for this process. A stale file left by a dead
// process is replaced; a live owner yields ErrAlreadyRunning.
func (p *PIDFile) Acquire() error {
	if p.path == "" {
		return nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(p.path)
				return fmt.Errorf("failed to write PID file: %w", errors.Join(werr, cerr))
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create PID file: %w", err)
		}

		pid, rerr := ReadPID(p.path)
		if rerr == nil && isProcessRunning(pid) {
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
		}
		// stale or unreadable: remove and retry once
		if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale PID file: %w", err)
		}
	}

	return fmt.Errorf("failed to acquire PID file %s: lost race with another daemon", p.path)
}

// Release removes the PID file if this process still owns it
func (p *PIDFile) Release() error {
	if p.path == "" {
		return nil
	}
	if pid, err := ReadPID(p.path); err == nil && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// ReadPID parses the process id stored at path
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID file %s", path)
	}
	return pid, nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	}
	return false
}
