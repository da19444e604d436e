package authorization

// CanModifyOwned applies the staff ownership rule: admins may modify any
// record, agents only the records they authored, customers nothing.
func CanModifyOwned(actor Actor, ownerID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == RoleAgent && actor.UserID == ownerID
}
