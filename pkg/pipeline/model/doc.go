// Package model provides the data structures shared by the pipeline package and its options.
// It defines the stage descriptors handed to options, the per-stage results,
// the final report and the option lifecycle contract.
package model
