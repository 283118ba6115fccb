package oracle

import (
	"github.com/samber/do/v2"

	"github.com/auberginewly/feihualing/internal/config"
	"github.com/auberginewly/feihualing/internal/oracle"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (oracle.Classifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.OracleEnabled() {
			return NewDisabledClassifier(), nil
		}
		return NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OracleTimeout()), nil
	})
}
