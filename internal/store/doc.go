// Package store defines the persistence boundary for the application
// state snapshot and the common error taxonomy shared by its
// implementations.
package store
