package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/benoitkugler/laserdraw/svgflat"
	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laserdraw.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "COM5", cfg.Port)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 600., cfg.Range)
	assert.Equal(t, 25*time.Millisecond, cfg.Timing().Settle)
	assert.Equal(t, 10*time.Millisecond, cfg.Timing().Pause)
	assert.Equal(t, "\n", cfg.Session(nil).LineEnding)
	assert.Equal(t, "uno", cfg.Serial().Board)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
port = "/dev/ttyACM0"
baud = 115200
board = "mega"
range = 1000.0
settle = "5ms"
pause = "1ms"
line_ending = "crlf"
max_tries = 5
curve = "cubic"
error_mode = "strict"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial().Port)
	assert.Equal(t, 115200, cfg.Serial().Baud)
	assert.Equal(t, "mega", cfg.Serial().Board)
	assert.Equal(t, 1000., cfg.Range)
	assert.Equal(t, 5*time.Millisecond, cfg.Timing().Settle)
	assert.Equal(t, time.Millisecond, cfg.Timing().Pause)
	assert.Equal(t, "\r\n", cfg.Session(nil).LineEnding)
	assert.Equal(t, uint(5), cfg.Session(nil).MaxTries)
	assert.Equal(t, svgflat.ModeCubic, cfg.Curve)
	assert.Equal(t, svgicon.StrictErrorMode, cfg.ErrorMode)
	// untouched
	assert.Equal(t, "vector", cfg.VectorDir)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, `port = "COM3"`)
	t.Setenv("LASERDRAW_PORT", "COM7")
	t.Setenv("LASERDRAW_PAUSE", "2ms")
	t.Setenv("LASERDRAW_CURVE", "cubic")
	t.Setenv("LASERDRAW_LINE_ENDING", "cr")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "COM7", cfg.Port)
	assert.Equal(t, Duration(2*time.Millisecond), cfg.Pause)
	assert.Equal(t, svgflat.ModeCubic, cfg.Curve)
	assert.Equal(t, CR, cfg.LineEnding)
	assert.Equal(t, 9600, cfg.Baud)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `port = `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `settle = "soon"`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `baud = -1`))
	assert.ErrorContains(t, err, "baud")

	t.Setenv("LASERDRAW_BAUD", "fast")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env:")
}

func TestLineEnding(t *testing.T) {
	for _, le := range []LineEnding{LF, CRLF, CR} {
		text, err := le.MarshalText()
		require.NoError(t, err)
		var back LineEnding
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, le, back)
	}
	var le LineEnding
	assert.Error(t, le.UnmarshalText([]byte("nl")))
}

// Exitf can't be intercepted in process: the test runs itself
// in a sub process.
func TestExitf(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "unplugged")
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "expected *exec.ExitError, got %T: %v", err, err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "fatal: unplugged")
}
