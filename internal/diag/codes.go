package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис
	SynInfo            Code = 1000
	SynUnexpectedToken Code = 1001
	SynInvalidLiteral  Code = 1002
	SynDeprecatedSet   Code = 1003
	SynBareAssignment  Code = 1004
	SynTopLevelStmt    Code = 1005

	// Разрешение имён
	ResInfo              Code = 2000
	ResNotFound          Code = 2001
	ResDuplicate         Code = 2002
	ResNamespaceNotFound Code = 2003
	ResNotAType          Code = 2004
	ResUnknownAttr       Code = 2005
	ResReservedName      Code = 2006

	// Типы
	TypInfo             Code = 3000
	TypMismatch         Code = 3001
	TypArity            Code = 3002
	TypNotCallable      Code = 3003
	TypNotValue         Code = 3004
	TypImmutable        Code = 3005
	TypMissingReturn    Code = 3006
	TypOpInFunction     Code = 3007
	TypUseInFunction    Code = 3008
	TypInvalidOperands  Code = 3009
	TypEntryPointParams Code = 3010

	// Точка входа
	EntInfo      Code = 4000
	EntMissing   Code = 4001
	EntDuplicate Code = 4002

	// Профиль Base
	BaseInfo             Code = 5000
	BaseResultComparison Code = 5001

	// Проход возможностей
	CapInfo                     Code = 6000
	CapForwardBranching         Code = 6001
	CapBackwardsBranching       Code = 6002
	CapIntegerComputations      Code = 6003
	CapFloatingPointComputation Code = 6004
	CapHigherLevelConstructs    Code = 6005
	CapQubitReset               Code = 6006

	// Линтер
	LintInfo                Code = 7000
	LintDivisionByZero      Code = 7001
	LintNeedlessParens      Code = 7002
	LintRedundantSemicolons Code = 7003
	LintDoubleEquality      Code = 7004
	LintNeedlessOperation   Code = 7005
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	SynInfo:            "Syntax information",
	SynUnexpectedToken: "Unexpected token",
	SynInvalidLiteral:  "Invalid literal",
	SynDeprecatedSet:   "Deprecated set keyword",
	SynBareAssignment:  "Assignment without set",
	SynTopLevelStmt:    "Statement outside of a callable",

	ResInfo:              "Resolution information",
	ResNotFound:          "Name not found",
	ResDuplicate:         "Duplicate declaration",
	ResNamespaceNotFound: "Namespace not found",
	ResNotAType:          "Unknown type",
	ResUnknownAttr:       "Unknown attribute",
	ResReservedName:      "Reserved name",

	TypInfo:             "Type information",
	TypMismatch:         "Type mismatch",
	TypArity:            "Wrong number of arguments",
	TypNotCallable:      "Expression is not callable",
	TypNotValue:         "Callable used as a value",
	TypImmutable:        "Cannot update immutable variable",
	TypMissingReturn:    "Missing return",
	TypOpInFunction:     "Operation called from function",
	TypUseInFunction:    "Qubit allocation in function",
	TypInvalidOperands:  "Invalid operand types",
	TypEntryPointParams: "Entry point takes parameters",

	EntInfo:      "Entry point information",
	EntMissing:   "Entry point not found",
	EntDuplicate: "Duplicate entry point",

	BaseInfo:             "Base profile information",
	BaseResultComparison: "Result comparison not supported by target",

	CapInfo:                     "Capability information",
	CapForwardBranching:         "Forward branching not supported by target",
	CapBackwardsBranching:       "Backwards branching not supported by target",
	CapIntegerComputations:      "Integer computations not supported by target",
	CapFloatingPointComputation: "Floating-point computations not supported by target",
	CapHigherLevelConstructs:    "Higher-level constructs not supported by target",
	CapQubitReset:               "Qubit reset not supported by target",

	LintInfo:                "Lint information",
	LintDivisionByZero:      "Division by zero",
	LintNeedlessParens:      "Needless parentheses",
	LintRedundantSemicolons: "Redundant semicolons",
	LintDoubleEquality:      "Strict comparison of doubles",
	LintNeedlessOperation:   "Operation does not contain quantum operations",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ENT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("BAS%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CAP%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return c.ID()
}
