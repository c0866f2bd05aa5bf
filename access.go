package authflow

import "sync"

// Authorize decides whether a caller's role set satisfies a requirement.
// An empty requirement allows any caller. Otherwise the caller needs at
// least one of the required roles (OR semantics). Role names are compared
// case-sensitively.
func Authorize(userRoles, required []string) error {
	if len(required) == 0 {
		return nil
	}

	for _, need := range required {
		for _, have := range userRoles {
			if need == have {
				return nil
			}
		}
	}

	return ErrForbidden
}

// AccessPolicy is a plain data association between operation identifiers and
// the roles required to invoke them. Operations register their requirement
// at wiring time; the dispatcher consults the map, no runtime reflection.
type AccessPolicy struct {
	mu    sync.RWMutex
	rules map[string][]string
}

// NewAccessPolicy creates an empty policy registry.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{rules: map[string][]string{}}
}

// Require declares the roles needed for an operation. Registering an
// operation with no roles marks it open to any authenticated caller.
// Re-registering replaces the previous requirement.
func (p *AccessPolicy) Require(operation string, roles ...string) *AccessPolicy {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules[operation] = append([]string(nil), roles...)
	return p
}

// RolesFor returns the declared requirement for an operation. Unregistered
// operations have no requirement.
func (p *AccessPolicy) RolesFor(operation string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules[operation]
}

// Authorize evaluates the caller's roles against the operation's declared
// requirement.
func (p *AccessPolicy) Authorize(userRoles []string, operation string) error {
	return Authorize(userRoles, p.RolesFor(operation))
}
