package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kdb "github.com/opst/voipinv/pkg/db"
	xe "github.com/opst/voipinv/pkg/errors"
)

// Classify converts errors caused by writing into the table into errors of kdb.
//
// - unique violation: kdb.ErrConflict
//
// - foreign key violation: kdb.ErrInvalid, for the column referring missing record.
//
// - check or not-null violation: kdb.ErrInvalid
//
// Other errors are wrapped as they are.
func Classify(table string, err error) error {
	if err == nil {
		return nil
	}
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) {
		return xe.Wrap(err)
	}

	switch pgerr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s (%s)", kdb.ErrConflict, table, pgerr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return kdb.NewErrInvalid(
			fieldOfConstraint(table, pgerr.ConstraintName, "_fkey"),
			"refers a record which does not exist",
		)
	case pgerrcode.CheckViolation:
		return kdb.NewErrInvalid(
			fieldOfConstraint(table, pgerr.ConstraintName, "_check"),
			pgerr.Message,
		)
	case pgerrcode.NotNullViolation:
		return kdb.NewErrInvalid(pgerr.ColumnName, "is required")
	}
	return xe.Wrap(err)
}

// fieldOfConstraint extracts a column name from constraint named by postgres,
// like "number_provider_id_fkey" -> "provider_id".
func fieldOfConstraint(table string, constraint string, suffix string) string {
	f := strings.TrimPrefix(constraint, table+"_")
	f = strings.TrimSuffix(f, suffix)
	if f == "" {
		return constraint
	}
	return f
}
