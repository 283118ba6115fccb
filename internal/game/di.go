package game

import (
	"github.com/samber/do/v2"

	"github.com/auberginewly/feihualing/internal/config"
	"github.com/auberginewly/feihualing/internal/discord"
	"github.com/auberginewly/feihualing/internal/oracle"
	"github.com/auberginewly/feihualing/internal/store"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		st := do.MustInvoke[store.Store](i)
		classifier := do.MustInvoke[oracle.Classifier](i)
		dc := do.MustInvoke[discord.Client](i)
		return NewManager(cfg, st, classifier, dc), nil
	})
}
