package domain

// Principal is the authenticated actor of a single request.
// It is built once per request and handed to every role-gated operation.
type Principal struct {
	UserID   uint
	Handle   string
	Name     string
	Role     Role
	DoctorID *uint // set only for RoleDoctor
}

// Is reports whether the principal holds one of the given roles
func (p *Principal) Is(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// OwnsDoctor reports whether the principal is the referring doctor with the given profile
func (p *Principal) OwnsDoctor(doctorID uint) bool {
	return p != nil && p.Role == RoleDoctor && p.DoctorID != nil && *p.DoctorID == doctorID
}
