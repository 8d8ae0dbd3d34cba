package familykeys

import "errors"

var (
	// ErrRecordNotFound indicates no key record exists for the group.
	ErrRecordNotFound = errors.New("familykeys: family key record not found")

	// ErrNoAccess indicates the caller's id is not in the group's member
	// map. A soft failure: the caller may legitimately not have rights.
	ErrNoAccess = errors.New("familykeys: no access to group key")

	// ErrGroupExists indicates a group key was already created for the id.
	ErrGroupExists = errors.New("familykeys: group key already exists")

	// ErrCorruptedWrappedKey indicates a member's wrapped key entry did not
	// unwrap to valid key material.
	ErrCorruptedWrappedKey = errors.New("familykeys: corrupted wrapped group key")
)
