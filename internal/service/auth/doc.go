// Package auth issues and validates JWT access tokens and verifies bcrypt
// password hashes for the login endpoint.
package auth
