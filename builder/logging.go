package builder

import (
	"strings"
	"time"

	"github.com/carlosnayan/gigboard/internal/logger"
)

// SlowQueryThreshold is the duration above which a statement is logged at warn.
const SlowQueryThreshold = time.Second

// detectQueryType returns the leading verb of a statement.
func detectQueryType(query string) string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(upper, verb) {
			return verb
		}
	}
	return "UNKNOWN"
}

// logStatement logs one executed statement: the query itself, its timing,
// a warning when it was slow and the error when it failed.
func logStatement(l *logger.Logger, model, query string, args []interface{}, duration time.Duration, err error) {
	if l == nil {
		return
	}
	l.Query(query, args, duration)

	queryType := detectQueryType(query)
	l.Info("%s %s executed in %v", model, queryType, duration)
	if duration > SlowQueryThreshold {
		l.Warn("slow query detected: %s %s took %v", model, queryType, duration)
	}
	if err != nil {
		l.Error("%s %s failed: %v", model, queryType, err)
	}
}

// SetLogLevels re-levels the default logger.
func SetLogLevels(levels []string) {
	logger.SetLogLevels(levels)
}
