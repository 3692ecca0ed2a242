// Package jobs stores job records for the mock (coordinator-less) path.
//
// Two implementations exist: MemoryRepository, the default, lives and dies
// with its SDK client; SQLiteRepository keeps records in a local database so
// the CLI can poll a job across invocations.
package jobs
