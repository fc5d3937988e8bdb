package lifecycle

import "github.com/communityhub-io/communityhub/internal/apperr"

// EnvDevelopment is the only environment in which destructive operations run.
const EnvDevelopment = "development"

// Gate is the single capability check for destructive, non-soft operations
// (permanent delete, delete-all). It is constructed once from the runtime
// environment and passed to the engine instead of comparing environment
// strings at call sites.
type Gate struct {
	environment string
}

// NewGate builds a gate for the given environment name.
func NewGate(environment string) Gate {
	return Gate{environment: environment}
}

// Allow returns a Forbidden error unless destructive operations are
// permitted in this environment.
func (g Gate) Allow(noun string) error {
	if g.environment == EnvDevelopment {
		return nil
	}
	return apperr.Forbidden("not able to delete %s in %s mode", noun, g.environment)
}

// Allows reports whether the gate permits destructive operations.
func (g Gate) Allows() bool { return g.environment == EnvDevelopment }
