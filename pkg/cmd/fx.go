package cmd

import (
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/liquibase"
	"github.com/zend/zsdeploy/pkg/migration"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		newOpener,
		fx.Annotate(postStage, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(diff, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(serve, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(rollback, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(changelog, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)

func newOpener(cfg *config.Config) migration.Opener {
	return liquibase.Opener(liquibase.Options{
		Command:   cfg.Liquibase.Command,
		Classpath: cfg.Liquibase.Classpath,
	})
}
