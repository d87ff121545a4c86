package project

import (
	"fmt"
	"strings"

	"github.com/vk/vcdb/internal/expand"
	"github.com/vk/vcdb/internal/macro"
)

// evalCondition decides a Condition attribute of the form L==R. Both sides
// are macro-expanded against the table as it stands right now, then compared
// case-insensitively. Ordering matters: a later property group cannot change
// an earlier condition's outcome.
func evalCondition(cond string, macros *macro.Table) (bool, error) {
	op := strings.Index(cond, "==")
	if op < 0 {
		return false, fmt.Errorf("unsupported condition %q: only == comparisons are recognized", cond)
	}

	left, err := expand.Expand(cond[:op], expand.MacroPrefix, macros.Resolver())
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", cond, err)
	}
	right, err := expand.Expand(cond[op+2:], expand.MacroPrefix, macros.Resolver())
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", cond, err)
	}

	return strings.EqualFold(left, right), nil
}
