// Package zendini reads application.ini files written for the Zend Framework
// configuration loader.
//
// The format is a PHP style ini file with two extensions on top:
//
//   - Sections may extend another section: [staging : production]. The child
//     starts from everything its parent defines and overrides individual keys.
//   - Dots in keys build a tree: resources.db.params.host = localhost is
//     reachable as Lookup("resources.db.params.host") and the resources.db
//     subtree as Sub("resources.db").
//
// Values follow the ini reader rules: quoted strings are taken literally, bare
// words true/on/yes become "1" and false/off/no/none/null become "", and bare
// identifiers naming a known constant are substituted and concatenated with
// neighbouring strings:
//
//	includePaths.library = APPLICATION_PATH "/../library"
//
// Usage:
//
//	cfg, err := zendini.LoadFile("application/configs/application.ini", "production",
//		zendini.WithConstants(map[string]string{"APPLICATION_PATH": appPath}))
//	if err != nil {
//		return err
//	}
//
//	host := cfg.String("resources.db.params.host")
package zendini
