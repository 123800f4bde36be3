package domain

// CanMutate reports whether caller may change an entity owned by ownerEmail.
// Admins bypass ownership; everyone else must match the owner email exactly.
func CanMutate(ownerEmail string, caller Identity) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.Email != "" && caller.Email == ownerEmail
}
