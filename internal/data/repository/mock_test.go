package repository

import (
	"regexp"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// sqlIn matches a statement containing every fragment in order.
func sqlIn(fragments ...string) string {
	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return "(?s)" + strings.Join(quoted, ".*")
}

// nilArg matches a typed nil pointer, which pgx sends as SQL NULL.
type nilArg[T any] struct{}

func (nilArg[T]) Match(v any) bool {
	p, ok := v.(*T)
	return ok && p == nil
}
