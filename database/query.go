package database

import (
	"fmt"
	"strings"

	"github.com/rpupo63/travel-journal-backend/models"
)

// searchCondition translates a store-agnostic filter into a SQL condition and
// its bind arguments. The match-all filter yields an empty condition. Scalar
// fields become ILIKE substring matches; the multi-valued tags field matches
// when the pattern matches any element. Patterns are wrapped in %...% without
// escaping ILIKE metacharacters, so a term containing % or _ over-matches.
func searchCondition(filter models.Filter) (string, []any) {
	if filter.MatchAll() {
		return "", nil
	}

	conditions := make([]string, 0, len(filter.AnyOf))
	args := make([]any, 0, len(filter.AnyOf))
	for _, match := range filter.AnyOf {
		switch match.Field {
		case models.FieldTags:
			conditions = append(conditions, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(posts.tags) AS t(tag) WHERE t.tag ILIKE ?)")
		default:
			conditions = append(conditions, fmt.Sprintf("%s ILIKE ?", match.Field))
		}
		args = append(args, "%"+match.Pattern+"%")
	}
	return strings.Join(conditions, " OR "), args
}
