package provision

import "fmt"

// ResourceError reports which resource an infrastructure operation failed
// on, and during which operation. Every provisioning failure surfaces as
// one of these so the operator knows what to inspect before rerunning.
type ResourceError struct {
	Resource string // resource kind, e.g. "server"
	Name     string // concrete resource name
	Op       string // failed operation, e.g. "create"
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %s failed: %v", e.Resource, e.Name, e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
