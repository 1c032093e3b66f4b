package access

// Operation identifica la operación evaluada por el gate.
type Operation string

const (
	OpGetOwnProfile Operation = "fetch_own_profile"
	OpGetProfile    Operation = "fetch_profile_by_id"
	OpListProfiles  Operation = "list_profiles"
	OpSetRole       Operation = "mutate_role"
)

// AccessDecision es efímera: se calcula por request y no se persiste.
type AccessDecision struct {
	Allow  bool
	Reason string
}

// Razones de decisión.
const (
	ReasonSelf       = "self"
	ReasonAdmin      = "admin"
	ReasonNotAdmin   = "not_admin"
	ReasonBadRequest = "bad_request"
)

func allow(reason string) AccessDecision { return AccessDecision{Allow: true, Reason: reason} }
func deny(reason string) AccessDecision  { return AccessDecision{Allow: false, Reason: reason} }

// Observer recibe decisiones y resultados de escritura de roles (métricas).
type Observer interface {
	ObserveDecision(op Operation, d AccessDecision)
	ObserveRoleWrite(path RoleWritePath, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(Operation, AccessDecision)  {}
func (nopObserver) ObserveRoleWrite(RoleWritePath, error)      {}
