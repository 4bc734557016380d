package services

// Identity carries the authenticated caller through every operation.
//
// A zero Identity is an anonymous caller. The admin flag is granted only by
// the fixed administrator credential check, never stored on a user row.
type Identity struct {
	UserID string
	Admin  bool
}

// Authenticated reports whether the identity belongs to a signed-in caller.
func (i Identity) Authenticated() bool {
	return i.UserID != "" || i.Admin
}

// CanMutatePlaylist decides whether the caller may modify or delete a playlist
// owned by ownerID. True iff the caller is an administrator or the owner.
func CanMutatePlaylist(caller Identity, ownerID string) bool {
	if caller.Admin {
		return true
	}
	return caller.UserID != "" && caller.UserID == ownerID
}
