package cnf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kop-cichra/slsbench/internal/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.cnf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const satlib = `c This Formular is generated by mcnf
c
c    horn? no
p cnf 3 4
 1 -2 3 0
-1 2 0
 2 3 0
-3 1 0
%
0

`

func TestInspectSATLIBTrailer(t *testing.T) {
	info, err := Inspect(writeFile(t, satlib))
	require.NoError(t, err)

	assert.Equal(t, 3, info.HeaderVars)
	assert.Equal(t, 4, info.HeaderClauses)
	assert.Equal(t, 3, info.Vars)
	assert.False(t, info.TriviallyUnsat)
}

func TestInspectUnits(t *testing.T) {
	info, err := Inspect(writeFile(t, "p cnf 2 2\n1 0\n1 2 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, info.HeaderClauses)
	assert.GreaterOrEqual(t, info.Units, 1)
}

func TestInspectContradiction(t *testing.T) {
	info, err := Inspect(writeFile(t, "p cnf 1 2\n1 0\n-1 0\n"))
	require.NoError(t, err)
	assert.True(t, info.TriviallyUnsat)
}

func TestInspectErrors(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "missing.cnf"))
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.Code(err))

	_, err = Inspect(writeFile(t, "1 2 0\n"))
	assert.Equal(t, errors.ErrCodeCNFParse, errors.Code(err))

	_, err = Inspect(writeFile(t, "p dnf x y\n"))
	assert.Equal(t, errors.ErrCodeCNFParse, errors.Code(err))
}

func TestCheckSatisfiable(t *testing.T) {
	ctx := context.Background()

	v, err := CheckSatisfiable(ctx, writeFile(t, satlib), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, Sat, v)

	v, err = CheckSatisfiable(ctx, writeFile(t, "p cnf 2 4\n1 2 0\n-1 2 0\n1 -2 0\n-1 -2 0\n"), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, Unsat, v)
}

type stuck struct{ stopped bool }

func (s *stuck) Test() (int, bool) { return 0, false }
func (s *stuck) Stop() int         { s.stopped = true; return 0 }

func TestWaitTimeout(t *testing.T) {
	s := &stuck{}
	v, err := wait(context.Background(), s, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Unknown, v)
	assert.True(t, s.stopped)
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &stuck{}
	_, err := wait(ctx, s, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.stopped)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "SAT", Sat.String())
	assert.Equal(t, "UNSAT", Unsat.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}
