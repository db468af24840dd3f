// Package pipeline provides a sequential executor for chained model calls.
//
// A pipeline is an ordered list of stages. Each stage turns the text produced by the stage before
// it into the input of one agent call, through a prompt function, and its output becomes the input
// of the next stage. Data only flows forward: a stage never sees anything but the output of its
// immediate predecessor, and the first stage receives the request given to Run.
//
// Stages never overlap because each one needs the output of the previous one. The pipeline stops
// on the first error: the failing stage is reported by name and the remaining stages are not
// called.
//
// Cross-cutting concerns such as timing, graph drawing, tracing or console reports are plugged in
// as options implementing model.PipelineOption. See the measure, drawer, tracing and report
// sub-packages.
package pipeline
