//go:build wireinject
// +build wireinject

package di

import (
	"avesto/pkg/config"
	"avesto/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideRecorder,

		// External collaborators
		ProvideProfileSource,
		ProvideModelBackend,

		// Engine components
		ProvideHunter,
		ProvideScorer,
		ProvideRouter,
		ProvideMonitor,
		ProvideEngine,

		// HTTP surface
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
