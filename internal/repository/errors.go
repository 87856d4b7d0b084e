package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

type ErrorKind int

const (
	KindDatabase ErrorKind = iota
	KindAuthentication
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	default:
		return "database"
	}
}

// MySQL 拒绝凭据时的错误号与 SQLSTATE
const (
	mysqlAccessDenied  = 1045
	sqlStateAuthFailed = "28000"
)

// DBError 数据访问层返回的带分类错误，调用方只需判断 Kind
type DBError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

func (e *DBError) IsAuthentication() bool {
	return e.Kind == KindAuthentication
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return err
	}

	kind := KindDatabase
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == mysqlAccessDenied || string(myErr.SQLState[:]) == sqlStateAuthFailed {
			kind = KindAuthentication
		}
	}

	return &DBError{Kind: kind, Op: op, Err: err}
}
