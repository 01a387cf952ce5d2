// Package service provides the application-level operations on maintenance
// tasks and users. Services own the business rules (ownership, the one-way
// pending to performed transition, notification on perform) and delegate
// persistence to the store interfaces.
package service
