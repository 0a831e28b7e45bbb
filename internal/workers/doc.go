// Package workers sizes worker pools for the scan pipeline based on
// available CPUs, with an environment override for constrained hosts.
//
// Preview extraction is a mixed workload: each job reads a small slice of
// a file from disk and then runs a CPU-bound decode. The scanner sizes its
// pool with ForMixed.
package workers
