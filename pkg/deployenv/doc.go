// Package deployenv captures the environment a deployment host hands to a
// hook script.
//
// The host exports ZS_* variables before running a hook. Load reads them once
// into an Env so the rest of the program works against an explicit value
// instead of reaching into the process environment:
//
//	e := deployenv.Load()
//	if err := e.Validate(); err != nil {
//		fmt.Println(err) // ZS_APPLICATION_BASE_DIR env var undefined
//		os.Exit(1)
//	}
//
//	if e.IsRunOnceNode() {
//		// cluster-wide singleton work
//	}
package deployenv
