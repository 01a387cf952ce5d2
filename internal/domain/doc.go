// Package domain contains the core business entities of the maintenance API:
// users with their roles, and the tasks technicians perform. It holds the
// entity validation rules and is independent of storage or transport.
package domain
