package pidfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/infrastructure/pidfile"
)

func TestAcquire_WritesCurrentPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	p := pidfile.New(path)

	require.NoError(t, p.Acquire())

	pid, err := pidfile.ReadPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, p.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_RejectsLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, pidfile.New(path).Acquire())

	err := pidfile.New(path).Acquire()

	assert.ErrorIs(t, err, pidfile.ErrAlreadyRunning)
}

func TestAcquire_ReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))

	require.NoError(t, pidfile.New(path).Acquire())

	pid, err := pidfile.ReadPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0644))

	require.NoError(t, pidfile.New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestEmptyPathIsNoop(t *testing.T) {
	p := pidfile.New("")

	assert.NoError(t, p.Acquire())
	assert.NoError(t, p.Release())
}
