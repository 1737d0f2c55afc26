package validation

import (
	"fmt"
	"strings"

	language "github.com/mjmahone/fragc/internal/language"
)

// NOTE: Keep messages stable, tooling matches on them.

func violationUnusedFragmentArgument(fragment, argument string, pos *language.Position) *Violation {
	return violationWithPosition(UnusedFragmentArgument,
		fmt.Sprintf("Fragment %q declares argument $%s but never references it in its own selection set", fragment, argument),
		pos,
	)
}

func violationUndefinedFragmentVariable(fragment, variable string, pos *language.Position) *Violation {
	return violationWithPosition(UndefinedFragmentVariable,
		fmt.Sprintf("Variable $%s in fragment %q is neither a declared fragment argument nor an operation variable", variable, fragment),
		pos,
	)
}

func violationUndefinedFragmentVariableInOperation(fragment, variable, operation string, pos *language.Position) *Violation {
	return violationWithPosition(UndefinedFragmentVariable,
		fmt.Sprintf("Variable $%s in fragment %q is not a declared fragment argument and operation %q does not define it", variable, fragment, operation),
		pos,
	)
}

func violationMissingRequiredFragmentArgument(fragment, argument string, pos *language.Position) *Violation {
	return violationWithPosition(MissingRequiredFragmentArgument,
		fmt.Sprintf("Spread of fragment %q must supply a value for required argument $%s", fragment, argument),
		pos,
	)
}

func violationConflictingFragmentArguments(fragment, operation string, valueSets []string, pos *language.Position) *Violation {
	return violationWithPosition(ConflictingFragmentArguments,
		fmt.Sprintf("Fragment %q resolves to conflicting argument values within operation %q: %s",
			fragment, operation, strings.Join(valueSets, " vs ")),
		pos,
	)
}

func violationConflictingFragmentArgumentsAcrossOperations(fragment string, operations, valueSets []string, pos *language.Position) *Violation {
	return violationWithPosition(ConflictingFragmentArguments,
		fmt.Sprintf("Fragment %q resolves to conflicting argument values across operations %s: %s",
			fragment, strings.Join(operations, ", "), strings.Join(valueSets, " vs ")),
		pos,
	)
}

func violationUnknownFragment(name string, pos *language.Position) *Violation {
	return violationWithPosition(UnknownFragment,
		fmt.Sprintf("Unknown fragment %q", name),
		pos,
	)
}

func violationUnknownFragmentArgument(fragment, argument string, pos *language.Position) *Violation {
	return violationWithPosition(UnknownFragmentArgument,
		fmt.Sprintf("Fragment %q has no argument named $%s", fragment, argument),
		pos,
	)
}

func violationDuplicateFragmentArgument(fragment, argument string, pos *language.Position) *Violation {
	return violationWithPosition(DuplicateFragmentArgument,
		fmt.Sprintf("Fragment %q declares argument $%s more than once", fragment, argument),
		pos,
	)
}

func violationFragmentCycle(path []string, pos *language.Position) *Violation {
	return violationWithPosition(FragmentCycle,
		fmt.Sprintf("Fragment spread cycle: %s", strings.Join(path, " spreads ")),
		pos,
	)
}
