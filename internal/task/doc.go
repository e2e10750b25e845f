// Package task implements asynchronous dispatch of generation tasks: a
// buffered queue, a worker-pool runner, and the generation task that
// drives one task record through its lifecycle against a provider.
package task
