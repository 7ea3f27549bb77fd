//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

// InitializeApp wires the full transcription stack from environment
// configuration. Run `wire` in this directory after changing providers.
func InitializeApp() (*App, error) {
	wire.Build(
		provideLogger,
		provideConfig,
		provideProfile,
		provideBackend,
		provideHost,
		provideNormalizer,
		provideService,
		provideServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
