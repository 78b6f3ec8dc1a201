package record

import (
	"github.com/smallbiznis/custoscarbon/internal/record/repository"
	"github.com/smallbiznis/custoscarbon/internal/record/service"
	"go.uber.org/fx"
)

var Module = fx.Module("record.store",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(service.EnsureSchema),
)
