//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/bumparena/internal/config"
)

func InitializeApp(settings config.Settings) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
