package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/utils"
)

// likeEscape is portable across MySQL, PostgreSQL and SQLite.
const likeEscape = "!"

// Paginate applies pagination to a GORM query. A zero limit means unpaginated.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Search ORs a case-insensitive substring match across columns. An empty
// (or whitespace-only) term leaves the query untouched.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "'"
			args[i] = pattern
		}

		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// WhereEq adds column = value when value is non-empty.
func WhereEq(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(value) == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// WhereID adds column = id when id is set.
func WhereID(column string, id *uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where(column+" = ?", *id)
	}
}

// LatestFirst orders by creation time descending with id as the tie-break so
// rows sharing a timestamp keep a stable order across pages.
func LatestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
