package dao

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452

	constraintVoterCNP        = "uni_voters_cnp"
	constraintBallotVoterID   = "uni_ballots_voter_id"
	constraintBallotCandidate = "fk_ballots_candidate"
)

// constraintError reports whether err is a driver error of the given kind and,
// when it is, the violated constraint. MySQL only exposes it inside the message.
func constraintError(err error, pgCode string, mysqlNumbers ...uint16) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCode {
		return pgErr.ConstraintName, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && slices.Contains(mysqlNumbers, myErr.Number) {
		return myErr.Message, true
	}

	return "", false
}

func isUniqueViolation(err error, constraint string) bool {
	name, ok := constraintError(err, pgerrcode.UniqueViolation, mysqlDuplicateEntry)
	return ok && strings.Contains(name, constraint)
}

func isForeignKeyViolation(err error) (string, bool) {
	return constraintError(err, pgerrcode.ForeignKeyViolation, mysqlRowIsReferenced, mysqlNoReferencedRow)
}
