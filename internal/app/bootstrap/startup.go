// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/sceneit/internal/app/resources"
	"github.com/dalemusser/sceneit/internal/app/store/oauthstate"
	"github.com/dalemusser/sceneit/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// stateJanitor is started here and stopped in Shutdown.
var stateJanitor *workers.StateCleanup

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	stateJanitor = workers.NewStateCleanup(oauthstate.New(deps.MongoDatabase), logger, time.Hour)
	stateJanitor.Start()

	return nil
}
