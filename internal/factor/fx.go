package factor

import (
	"github.com/smallbiznis/custoscarbon/internal/factor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("factor.store",
	fx.Provide(service.New),
)
