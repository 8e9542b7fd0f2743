// Package payload is the input boundary of the pipeline. Producers serialise
// charts as two parallel arrays, figures and ids; this package locates that
// payload (file, fs.FS, HTTP or in-memory bytes), decodes JSON or YAML, checks
// its shape and zips it into a chart.Batch.
package payload
