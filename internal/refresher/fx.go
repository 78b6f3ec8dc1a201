package refresher

import "go.uber.org/fx"

var Module = fx.Module("refresher",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
)
