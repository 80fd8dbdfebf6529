// Package liquibase drives the Liquibase command line as a migration.Client.
//
// Opening a client checks that the database is reachable, the same way the
// engine would when it builds its own connection. Every operation then runs
// the configured liquibase command with the connection and changelog passed
// as flags:
//
//	open := liquibase.Opener(liquibase.Options{Command: "java -jar /opt/liquibase/liquibase.jar"})
//
//	client, err := open(ctx, migration.Connection{
//		Driver:   "mysql",
//		Host:     "localhost",
//		Database: "zf_production",
//		Username: "app",
//	}, "db/1.4.0/master.xml")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	// runs "update" followed by "tag 1.4.0"
//	err = client.Update(ctx, "1.4.0")
//
// The command line is split with shell quoting rules, so wrappers such as
// "docker run --rm --network host liquibase/liquibase" can be used as well.
package liquibase
