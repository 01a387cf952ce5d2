// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// The package also provides RunInTransaction and TxManager, which services
// use to group several store calls into one atomic unit of work.
package store
