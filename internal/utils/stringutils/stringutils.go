package stringutils

import "fmt"

// INClause builds the placeholder list and argument slice for a SQL
// "IN (...)" clause, e.g. ["$1", "$2"] and [42, 43].
func INClause[T any](list []T) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, id := range list {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	return placeholders, args
}
