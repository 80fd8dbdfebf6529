// Package diffrunner compares two databases through the migration engine and
// writes the resulting changelog document.
//
// A Request names a source database (the one the handle is opened against),
// a target database and a changelog. Run opens a handle on the source, asks
// for a diff against the target and writes the raw result:
//
//	runner := diffrunner.New(liquibase.Opener(opts))
//	err := runner.Run(ctx, os.Stdout, diffrunner.FromConfig(cfg.Diff))
//
// When the handle cannot be opened the failure message is written in place of
// the diff. Errors returned by the diff itself are passed back untouched.
package diffrunner
