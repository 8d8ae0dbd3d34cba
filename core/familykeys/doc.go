// Package familykeys distributes one shared symmetric key per member group.
//
// The shared key encrypts group-owned documents (see core/doccrypt). It is
// never stored in plaintext: the group's key record holds one wrapped copy
// per member, each encrypted with that member's personal key through the
// field codec. A member can decrypt the shared key if and only if their id
// is present in the record's member map; anyone else gets ErrNoAccess,
// which is a soft failure; many read paths probe optimistically.
//
// Membership only grows. Adding a member is the single supported mutation;
// removal and rotation are deliberately unsupported (see DESIGN.md).
//
// Two ways into the member map:
//
//   - AddSelfToGroupKey: a member who can already decrypt the shared key
//     wraps a fresh copy for their own id with their own personal key.
//   - AddMember: an existing member wraps a copy for a federated-identity
//     member. Federated personal keys are derived deterministically from
//     the member's user id (core/kdf), so the wrapping requires no secret
//     belonging to the new member. Password principals cannot be added this
//     way; their keys are not derivable by anyone else.
//
// Unwrapped group keys are cached in memory per Distributor with no
// eviction; the cache is bounded by the number of groups a session touches.
package familykeys
