// Package ports defines the interfaces between the canopy core and its
// adapters: content sources on one side, cache stores on the other.
// It also ships the contract test suites adapters verify themselves against.
package ports
