package domain

// Identity is what a request knows about the signed-in user. It is rebuilt
// from the user row on every request, so role or state changes apply at once.
type Identity struct {
	ID        uint      `json:"id"`
	Role      Role      `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	State     UserState `json:"state"`
}

func (i Identity) IsStaff() bool {
	return i.Role.IsStaff()
}
