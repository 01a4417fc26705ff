// Package journal provides the in-memory journal used by tests and by
// short-lived tools that do not need a database.
package journal
