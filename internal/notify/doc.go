// Package notify tells managers when a technician performs a task.
//
// The Dispatcher runs inside the API process and publishes a TypeTaskPerformed
// event naming every manager. The LogHandler runs in the notifier process and
// turns each received event into one log line per manager.
package notify
