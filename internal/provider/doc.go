// Package provider defines the uniform contract for invoking external
// image-generation vendors and the registry that maps an account's
// provider kind to its adapter implementation.
package provider
