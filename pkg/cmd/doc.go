// Package cmd provides the CLI commands for the zsdeploy tool.
//
// # Available Commands
//
//   - post-stage: the deployment hook run by the host after staging a version
//   - diff: print the schema diff between the configured databases
//   - serve: expose the schema diff over HTTP at GET /diff
//   - rollback: roll the configured database back to a tag
//   - changelog: generate a changelog from the configured database
//
// Each command is a function returning a *cli.Command and is registered with
// the application through the "commands" fx value group.
//
// # Exit Codes
//
// A successful run exits with 0. A missing deployment variable exits with 1
// after its message was printed. Every other failure is logged and exits with
// 255.
//
// # Example Usage
//
//	ZS_APPLICATION_BASE_DIR=/srv/app ZS_CURRENT_APP_VERSION=1.2.0 \
//	ZS_APPLICATION_ENV=production ZS_RUN_ONCE_NODE=1 zsdeploy post-stage
//	zsdeploy diff --target zf_staging
//	zsdeploy serve --addr :9090
//	zsdeploy rollback --tag 1.1.0
//	zsdeploy changelog --author ops --write
package cmd
