// Package errs declares error types thrown by runtime operations.
package errs

import "fmt"

// ProtectedNamespace is thrown when trying to remove a namespace that the
// runtime requires to stay alive for its whole lifetime.
type ProtectedNamespace struct {
	Name string
}

func (e ProtectedNamespace) Error() string {
	return fmt.Sprintf("namespace %s is protected and cannot be removed", e.Name)
}
