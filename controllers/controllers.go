package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"serendib/cache"
	"serendib/mailer"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	db      *sqlx.DB
	QB      = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	logger  = zap.NewNop().Sugar()
	mail    mailer.Mailer
	reports *cache.ReportCache
)

const defaultPageSize = 50

func SetDB(database *sqlx.DB) {
	db = database
}

func SetLogger(l *zap.SugaredLogger) {
	logger = l
}

func SetMailer(m mailer.Mailer) {
	mail = m
}

func SetReportCache(c *cache.ReportCache) {
	reports = c
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres referential error,
// raised both for dangling references and for RESTRICT'ed deletes.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// pageParams reads limit/offset query params with a bounded default page.
func pageParams(r *http.Request) (limit, offset uint64) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			offset = n
		}
	}
	return limit, offset
}
