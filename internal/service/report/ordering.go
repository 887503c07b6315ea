package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var fold = cases.Fold()

// userKey resolves the stable grouping key for a session's identity using
// the precedence numeric id > record reference > name. Sessions sharing a
// key are the same person for aggregation purposes.
func userKey(id session.Identity) string {
	switch {
	case id.NumericID != nil:
		return fmt.Sprintf("uid:%d", *id.NumericID)
	case id.RecordID != nil && *id.RecordID != "":
		return "rec:" + *id.RecordID
	case id.Name != nil && strings.TrimSpace(*id.Name) != "":
		return "name:" + fold.String(strings.TrimSpace(*id.Name))
	default:
		return "unknown"
	}
}

// newCollator builds a fresh collator for one aggregation run. Collators
// are not safe for concurrent use, so each run gets its own.
func newCollator(tag language.Tag) *collate.Collator {
	return collate.New(tag)
}

// machineIDLess is the natural machine-id comparator: ids sharing a prefix
// order by their numeric suffix (so "M2" < "M10"), everything else falls
// back to the collated string compare.
func machineIDLess(col *collate.Collator, a, b string) bool {
	pa, na, okA := splitNumericSuffix(a)
	pb, nb, okB := splitNumericSuffix(b)
	if okA && okB && pa == pb {
		if na != nb {
			return na < nb
		}
		return col.CompareString(a, b) < 0
	}
	return col.CompareString(a, b) < 0
}

// splitNumericSuffix splits "M012" into ("M", 12, true). Strings without a
// trailing digit run report ok=false.
func splitNumericSuffix(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}
