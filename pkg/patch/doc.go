// Package patch rewrites hand-authored configuration files in place.
//
// Files are treated as opaque text: every edit is a literal substring
// operation so comments, ordering and whitespace survive untouched. Each file
// is read once, transformed, and written back in full.
//
//	err := patch.File(".htaccess", func(s string) string {
//		return patch.AccessControl(s, "production")
//	})
package patch
