package users

// Normalize folds the legacy master-user payload shape into the canonical
// one: old clients send assignments keyed by role name, new clients send a
// single hospitalAssignment sub-record. The canonical field wins when both
// are present.
func (req *UpsertUserRequest) Normalize() {
	if req.HospitalAssignment != nil || len(req.LegacyAssignments) == 0 {
		req.LegacyAssignments = nil
		return
	}
	if a, ok := req.LegacyAssignments[req.Role]; ok {
		req.HospitalAssignment = &a
	}
	req.LegacyAssignments = nil
}
