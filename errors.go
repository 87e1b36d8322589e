package srsym

import (
	"strconv"
)

// Conflict describes what a name collides with.
type Conflict string

// Kinds of naming conflicts.
const (
	// ConflictOperator is a collision with an operator token.
	ConflictOperator Conflict = "operator"
	// ConflictNamespace is a collision with a name reserved by the engine.
	ConflictNamespace Conflict = "namespace"
	// ConflictFeature is a feature name given more than once.
	ConflictFeature Conflict = "feature"
	// ConflictParameter is a template parameter given more than once.
	ConflictParameter Conflict = "parameter"
)

// NamingConflictError is an error returned when a proposed feature or
// operator name is already in use. Names are never renamed to resolve a
// conflict.
type NamingConflictError struct {
	// Name is the offending name.
	Name string
	// Conflict is what the name collides with.
	Conflict Conflict
}

func (err *NamingConflictError) Error() string {
	switch err.Conflict {
	case ConflictOperator:
		return "name " + strconv.Quote(err.Name) + " is an operator token"
	case ConflictNamespace:
		return "name " + strconv.Quote(err.Name) + " is reserved by the algebra engine"
	case ConflictFeature:
		return "duplicate feature name " + strconv.Quote(err.Name)
	case ConflictParameter:
		return "duplicate parameter name " + strconv.Quote(err.Name)
	}
	return "name " + strconv.Quote(err.Name) + " conflicts with " + string(err.Conflict)
}

// ConstructionError is an error returned when an equation cannot be turned
// into an expression tree.
type ConstructionError struct {
	// Equation is the equation text as given to the parser.
	Equation string
	// Err is the error from the engine.
	Err error
}

func (err *ConstructionError) Error() string {
	return "translating " + strconv.Quote(err.Equation) + ": " + err.Err.Error()
}

// Unwrap returns the underlying engine error.
func (err *ConstructionError) Unwrap() error {
	return err.Err
}
