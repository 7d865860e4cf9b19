package modules

import (
	"github.com/iota-uz/payroll-console/modules/payroll"
	"github.com/iota-uz/payroll-console/pkg/application"
)

var BuiltInModules = []application.Module{
	payroll.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
