// Package hook implements the post-stage deployment hook.
//
// The deployment host runs the hook once per node after an application
// version has been staged. The hook prepares the staged copy for the target
// environment and, on the single node flagged as the run-once node, migrates
// the database schema to the version being deployed.
//
// Steps, in order:
//
//  1. Validate ZS_APPLICATION_BASE_DIR, ZS_CURRENT_APP_VERSION and
//     ZS_APPLICATION_ENV. The first missing one stops the hook.
//  2. Append a PostStage record to the deployment log.
//  3. Set APPLICATION_ENV in public/.htaccess.
//  4. Substitute #version# in application/configs/application.ini.
//  5. On the run-once node, when db/<version>/master.xml exists, log the
//     changelog and run a migration update tagged with the version. Database
//     credentials come from resources.db.params in the patched ini.
//
// Only step 1 fails in a controlled way. Any other failure is returned as is
// and is expected to abort the process.
package hook
