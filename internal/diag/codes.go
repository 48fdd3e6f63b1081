package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Parser-side codes. The verifier never emits these; they exist so the
	// sink and renderers understand every kind a unit can collect.
	SynInfo                Code = 2000
	SynUnallowedContext    Code = 2001
	SynUnexpectedNode      Code = 2002
	SynDuplicateModifier   Code = 2003
	SynIllegalFixtureShape Code = 2004

	// References
	VerifyInfo                  Code = 3000
	VerifyUnresolvedReference   Code = 3001
	VerifyAmbiguousReference    Code = 3002
	VerifyInaccessibleReference Code = 3003
	VerifyUndefinedProperty     Code = 3004
	VerifyPackageNotFound       Code = 3005
	VerifyNotANamespace         Code = 3006
	VerifyNotAType              Code = 3007
	VerifyNotAValue             Code = 3008
	VerifyUnresolvedAlias       Code = 3009
	VerifyThisUnavailable       Code = 3010
	VerifySuperUnavailable      Code = 3011

	// Types
	VerifyIncompatibleTypes     Code = 3100
	VerifyIllegalConversion     Code = 3101
	VerifyAnnotationMismatch    Code = 3102
	VerifyNotCallable           Code = 3103
	VerifyNotConstructible      Code = 3104
	VerifyNotIndexable          Code = 3105
	VerifyNotIterable           Code = 3106
	VerifyIllegalOperands       Code = 3107
	VerifyIllegalOperand        Code = 3108
	VerifyTooFewArguments       Code = 3109
	VerifyTooManyArguments      Code = 3110
	VerifyCannotAssignReadOnly  Code = 3111
	VerifyCannotReadWriteOnly   Code = 3112
	VerifyNotDestructurable     Code = 3113
	VerifyTooManyTupleElements  Code = 3114
	VerifyIllegalSpreadInTuple  Code = 3115
	VerifyIllegalSpreadPosition Code = 3116
	VerifyRecordKeyIdentifier   Code = 3117
	VerifyUndefinedEnumVariant  Code = 3118
	VerifyReturnValueExpected   Code = 3119
	VerifyUnexpectedReturnValue Code = 3120
	VerifyVariableMustBeInit    Code = 3121
	VerifyConstantExpected      Code = 3122
	VerifyEnumValueNotNumeric   Code = 3123
	VerifyVirtualTypeMismatch   Code = 3124

	// Structure
	VerifyDuplicateDefinition      Code = 3200
	VerifyShadowingInheritedMember Code = 3201
	VerifyWrongTypeArgumentCount   Code = 3202
	VerifyTypeArgumentConstraint   Code = 3203
	VerifyNotAGenericType          Code = 3204
	VerifyTypeArgumentsRequired    Code = 3205
	VerifyCircularInheritance      Code = 3206
	VerifyCannotExtendFinalClass   Code = 3207
	VerifyNotAClass                Code = 3208
	VerifyNotAnInterface           Code = 3209
	VerifyIllegalBreak             Code = 3210
	VerifyIllegalContinue          Code = 3211
	VerifyAwaitOutsideAsync        Code = 3212
	VerifyYieldOutsideGenerator    Code = 3213
	VerifySuperCallOutsideCtor     Code = 3214
	VerifyDuplicateEnumVariant     Code = 3215

	// Contracts
	VerifyMissingMethod             Code = 3300
	VerifyMissingGetter             Code = 3301
	VerifyMissingSetter             Code = 3302
	VerifyRequirementKindMismatch   Code = 3303
	VerifyWrongMethodSignature      Code = 3304
	VerifyWrongGetterSignature      Code = 3305
	VerifyWrongSetterSignature      Code = 3306
	VerifyMustOverrideAMethod       Code = 3307
	VerifyCannotOverrideGeneric     Code = 3308
	VerifyIncompatibleOverride      Code = 3309
	VerifyCannotOverrideFinalMethod Code = 3310

	// Advisory
	WarnMissingTypeAnnotation   Code = 3900
	WarnMissingReturnAnnotation Code = 3901
	WarnUnnecessaryNonNull      Code = 3902
)

type codeInfo struct {
	title    string
	template string
}

var codeTable = map[Code]codeInfo{
	UnknownCode:            {"Unknown error", "unknown error"},
	SynInfo:                {"Syntax information", ""},
	SynUnallowedContext:    {"Definition in unallowed context", "definition appears in unallowed context"},
	SynUnexpectedNode:      {"Unexpected node", "unexpected {kind}"},
	SynDuplicateModifier:   {"Duplicate modifier", "duplicate modifier '{name}'"},
	SynIllegalFixtureShape: {"Malformed program document", "{detail}"},

	VerifyInfo:                  {"Verifier information", ""},
	VerifyUnresolvedReference:   {"Unresolved reference", "unresolved reference '{name}'"},
	VerifyAmbiguousReference:    {"Ambiguous reference", "ambiguous reference '{name}'"},
	VerifyInaccessibleReference: {"Inaccessible reference", "'{name}' is not accessible from here"},
	VerifyUndefinedProperty:     {"Undefined property", "undefined property '{name}' on '{type}'"},
	VerifyPackageNotFound:       {"Package not found", "package '{name}' not found"},
	VerifyNotANamespace:         {"Not a namespace", "'{name}' is not a namespace"},
	VerifyNotAType:              {"Not a type", "'{name}' is not a type"},
	VerifyNotAValue:             {"Not a value", "'{name}' is not a value"},
	VerifyUnresolvedAlias:       {"Unresolved alias", "alias '{name}' could not be resolved"},
	VerifyThisUnavailable:       {"'this' unavailable", "'this' is not available in this context"},
	VerifySuperUnavailable:      {"'super' unavailable", "'super' is not available in this context"},

	VerifyIncompatibleTypes:     {"Incompatible types", "expected '{expected}', got '{got}'"},
	VerifyIllegalConversion:     {"Illegal conversion", "cannot convert '{from}' to '{to}'"},
	VerifyAnnotationMismatch:    {"Annotation mismatch", "annotated type '{expected}' differs from inferred type '{got}'"},
	VerifyNotCallable:           {"Not callable", "'{type}' is not callable"},
	VerifyNotConstructible:      {"Not constructible", "'{type}' cannot be constructed"},
	VerifyNotIndexable:          {"Not indexable", "'{type}' cannot be indexed"},
	VerifyNotIterable:           {"Not iterable", "'{type}' is not iterable"},
	VerifyIllegalOperands:       {"Illegal operands", "operator '{op}' cannot be applied to '{left}' and '{right}'"},
	VerifyIllegalOperand:        {"Illegal operand", "operator '{op}' cannot be applied to '{type}'"},
	VerifyTooFewArguments:       {"Too few arguments", "expected at least {expected} arguments, got {got}"},
	VerifyTooManyArguments:      {"Too many arguments", "expected at most {expected} arguments, got {got}"},
	VerifyCannotAssignReadOnly:  {"Read-only assignment", "cannot assign to read-only '{name}'"},
	VerifyCannotReadWriteOnly:   {"Write-only read", "cannot read write-only '{name}'"},
	VerifyNotDestructurable:     {"Not destructurable", "'{type}' cannot be destructured by this pattern"},
	VerifyTooManyTupleElements:  {"Too many tuple elements", "tuple '{type}' has only {limit} elements"},
	VerifyIllegalSpreadInTuple:  {"Spread in tuple pattern", "spread is not allowed when destructuring a tuple"},
	VerifyIllegalSpreadPosition: {"Misplaced spread", "spread must be the last element"},
	VerifyRecordKeyIdentifier:   {"Record key must be identifier", "record pattern key must be an identifier"},
	VerifyUndefinedEnumVariant:  {"Undefined enum variant", "'{name}' is not a variant of '{type}'"},
	VerifyReturnValueExpected:   {"Return value expected", "a value of type '{type}' must be returned"},
	VerifyUnexpectedReturnValue: {"Unexpected return value", "this function does not return a value"},
	VerifyVariableMustBeInit:    {"Variable must be initialised", "'{name}' must be initialised"},
	VerifyConstantExpected:      {"Constant expected", "a compile-time constant is required"},
	VerifyEnumValueNotNumeric:   {"Enum representation not numeric", "enum representation '{type}' must be numeric"},
	VerifyVirtualTypeMismatch:   {"Getter/setter type mismatch", "getter and setter of '{name}' disagree on type"},

	VerifyDuplicateDefinition:      {"Duplicate definition", "'{name}' is already defined"},
	VerifyShadowingInheritedMember: {"Shadowing inherited member", "'{name}' shadows an inherited member"},
	VerifyWrongTypeArgumentCount:   {"Wrong type argument count", "expected {expected} type arguments, got {got}"},
	VerifyTypeArgumentConstraint:   {"Type argument constraint", "'{type}' does not satisfy the bound of '{name}'"},
	VerifyNotAGenericType:          {"Not a generic type", "'{name}' is not generic"},
	VerifyTypeArgumentsRequired:    {"Type arguments required", "'{name}' requires type arguments"},
	VerifyCircularInheritance:      {"Circular inheritance", "'{name}' inherits from itself"},
	VerifyCannotExtendFinalClass:   {"Final class extension", "cannot extend final class '{name}'"},
	VerifyNotAClass:                {"Not a class", "'{name}' is not a class"},
	VerifyNotAnInterface:           {"Not an interface", "'{name}' is not an interface"},
	VerifyIllegalBreak:             {"Illegal break", "'break' outside of a loop"},
	VerifyIllegalContinue:          {"Illegal continue", "'continue' outside of a loop"},
	VerifyAwaitOutsideAsync:        {"Illegal await", "'await' outside of a function body"},
	VerifyYieldOutsideGenerator:    {"Illegal yield", "'yield' outside of a function body"},
	VerifySuperCallOutsideCtor:     {"Illegal super call", "'super(...)' is only allowed in a constructor"},
	VerifyDuplicateEnumVariant:     {"Duplicate enum variant", "variant '{name}' is already defined"},

	VerifyMissingMethod:             {"Missing method", "missing method '{name}' required by '{interface}'"},
	VerifyMissingGetter:             {"Missing getter", "missing getter '{name}' required by '{interface}'"},
	VerifyMissingSetter:             {"Missing setter", "missing setter '{name}' required by '{interface}'"},
	VerifyRequirementKindMismatch:   {"Requirement kind mismatch", "'{name}' must be a {expected} to satisfy '{interface}'"},
	VerifyWrongMethodSignature:      {"Wrong method signature", "method '{name}' must have signature '{expected}'"},
	VerifyWrongGetterSignature:      {"Wrong getter signature", "getter '{name}' must have signature '{expected}'"},
	VerifyWrongSetterSignature:      {"Wrong setter signature", "setter '{name}' must have signature '{expected}'"},
	VerifyMustOverrideAMethod:       {"Nothing to override", "'{name}' must override a method"},
	VerifyCannotOverrideGeneric:     {"Generic override", "cannot override generic method '{name}'"},
	VerifyIncompatibleOverride:      {"Incompatible override", "override of '{name}' must have signature '{expected}'"},
	VerifyCannotOverrideFinalMethod: {"Final override", "cannot override final method '{name}'"},

	WarnMissingTypeAnnotation:   {"Missing type annotation", "'{name}' has no type annotation"},
	WarnMissingReturnAnnotation: {"Missing return annotation", "'{name}' has no return type annotation"},
	WarnUnnecessaryNonNull:      {"Unnecessary non-null assertion", "'{type}' is already non-nullable"},
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 3900:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 3900 && ic < 4000:
		return fmt.Sprintf("WRN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	info, ok := codeTable[c]
	if !ok {
		return codeTable[UnknownCode].title
	}
	return info.title
}

// Template returns the message template of c; arguments are written as
// {name} and substituted by Diagnostic.Message.
func (c Code) Template() string {
	info, ok := codeTable[c]
	if !ok {
		return codeTable[UnknownCode].template
	}
	return info.template
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode maps an identifier produced by ID back to its code.
func ParseCode(id string) (Code, bool) {
	for c := range codeTable {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
