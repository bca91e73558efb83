// Package taskboard implements the credential and session lifecycle for a
// per-user task list service: password hashing, dual access/refresh token
// issuance and verification, the authorization middleware gating protected
// operations, and the ownership link between users and the tasks they create.
package taskboard
