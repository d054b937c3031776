package tyerr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None        ErrCode = iota
	UnknownType ErrCode = iota
	DuplicateDeclaration
	RegistryFrozen
	BadArity
	CyclicAncestry
	VarianceViolation
	BoundViolation
)

type TypeError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) TypeError
	getStack() []byte
}

func FormatWithCode(e TypeError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E TypeError](err E) TypeError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From  error
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewUnknownType struct {
	Name  string
	stack []byte
}

func (e NewUnknownType) Code() ErrCode { return UnknownType }
func (e NewUnknownType) Error() string {
	return fmt.Sprintf("type '%s' is not declared", e.Name)
}
func (e NewUnknownType) getStack() []byte { return e.stack }
func (e NewUnknownType) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewDuplicateDeclaration struct {
	Name  string
	stack []byte
}

func (e NewDuplicateDeclaration) Code() ErrCode { return DuplicateDeclaration }
func (e NewDuplicateDeclaration) Error() string {
	return fmt.Sprintf("type '%s' is declared more than once", e.Name)
}
func (e NewDuplicateDeclaration) getStack() []byte { return e.stack }
func (e NewDuplicateDeclaration) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewRegistryFrozen struct {
	Name  string
	stack []byte
}

func (e NewRegistryFrozen) Code() ErrCode { return RegistryFrozen }
func (e NewRegistryFrozen) Error() string {
	return fmt.Sprintf("cannot declare '%s': the registry is frozen", e.Name)
}
func (e NewRegistryFrozen) getStack() []byte { return e.stack }
func (e NewRegistryFrozen) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewBadArity struct {
	Name  string
	Want  int
	Got   int
	stack []byte
}

func (e NewBadArity) Code() ErrCode { return BadArity }
func (e NewBadArity) Error() string {
	return fmt.Sprintf("type '%s' takes %d type arguments, but %d were supplied", e.Name, e.Want, e.Got)
}
func (e NewBadArity) getStack() []byte { return e.stack }
func (e NewBadArity) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewCyclicAncestry struct {
	// Chain holds the names along the supertype cycle, starting and
	// ending at the same declaration.
	Chain []string
	stack []byte
}

func (e NewCyclicAncestry) Code() ErrCode { return CyclicAncestry }
func (e NewCyclicAncestry) Error() string {
	return fmt.Sprintf("supertype cycle: %s", strings.Join(e.Chain, " <: "))
}
func (e NewCyclicAncestry) getStack() []byte { return e.stack }
func (e NewCyclicAncestry) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewVarianceViolation struct {
	// TypeName is the generic declaration the violation was found in.
	TypeName string
	// Param is the offending type parameter.
	Param string
	// Member and Site name where inside the declaration the parameter occurred,
	// for example member 'set', site 'parameter 1'.
	Member string
	Site   string
	// Declared is a rendering of the parameter's declared variance,
	// Position of the position it actually occurred in.
	Declared string
	Position string
	stack    []byte
}

func (e NewVarianceViolation) Code() ErrCode { return VarianceViolation }
func (e NewVarianceViolation) Error() string {
	return fmt.Sprintf(
		"%s type parameter '%s' of '%s' occurs in %s position (member '%s', %s)",
		e.Declared, e.Param, e.TypeName, e.Position, e.Member, e.Site,
	)
}
func (e NewVarianceViolation) getStack() []byte { return e.stack }
func (e NewVarianceViolation) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NewBoundViolation struct {
	TypeName string
	Param    string
	Argument string
	Bound    string
	stack    []byte
}

func (e NewBoundViolation) Code() ErrCode { return BoundViolation }
func (e NewBoundViolation) Error() string {
	return fmt.Sprintf(
		"argument '%s' for parameter '%s' of '%s' is not a subtype of its bound '%s'",
		e.Argument, e.Param, e.TypeName, e.Bound,
	)
}
func (e NewBoundViolation) getStack() []byte { return e.stack }
func (e NewBoundViolation) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}
