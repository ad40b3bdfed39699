package errorx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryExecutionErrorPreservesDriverMessage(t *testing.T) {
	driverErr := errors.New(`ERROR: relation "missing" does not exist (SQLSTATE 42P01)`)

	err := errorx.NewQueryExecutionErrorWrapper(driverErr, "error executing query '%s'", "SELECT * FROM missing")

	assert.Contains(t, err.Error(), "SQLSTATE 42P01")
	assert.Contains(t, err.Error(), "SELECT * FROM missing")
	assert.ErrorIs(t, err, driverErr)
}

func TestConnectionEstablishErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")

	err := errorx.NewConnectionEstablishErrorWrapper(cause, "opening connection to %s", "postgres")

	require.ErrorIs(t, err, cause)

	var target *errorx.ConnectionEstablishError
	require.ErrorAs(t, fmt.Errorf("acquire: %w", err), &target)
}

func TestErrorKindsAreDistinguishable(t *testing.T) {
	var (
		invalidScheme *errorx.InvalidSchemeError
		queryErr      *errorx.QueryExecutionError
	)

	err := errorx.NewInvalidSchemeError("unrecognized scheme %q", "oracle")

	assert.ErrorAs(t, err, &invalidScheme)
	assert.False(t, errors.As(err, &queryErr))
}

func TestUnsupportedParameterTypeErrorMessage(t *testing.T) {
	err := errorx.NewUnsupportedParameterTypeError("parameter %d has unsupported type %T", 2, map[string]int{})

	assert.Equal(t, "parameter 2 has unsupported type map[string]int", err.Error())
}

func TestPoolTimeoutErrorWithoutCause(t *testing.T) {
	err := errorx.NewPoolTimeoutError("acquire timed out after %dms", 500)

	assert.Equal(t, "acquire timed out after 500ms", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
