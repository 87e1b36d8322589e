package srsym

import "github.com/zephyrtronium/srsym/sym"

// ValidateName returns a *NamingConflictError if name is a builtin operator
// token or is reserved in the engine's namespace. It returns nil otherwise.
func ValidateName(name string) error {
	return builtinRegistry.ValidateName(name)
}

// ValidateName returns a *NamingConflictError if name is an operator token in
// r or is reserved in the engine's namespace.
func (r *Registry) ValidateName(name string) error {
	if _, ok := r.ops[name]; ok {
		return &NamingConflictError{Name: name, Conflict: ConflictOperator}
	}
	if sym.IsReserved(name) {
		return &NamingConflictError{Name: name, Conflict: ConflictNamespace}
	}
	return nil
}
