// Package service implements the application operations over the
// snapshot store: the account registry, the task repository and
// submission path, and derived usage statistics.
package service
