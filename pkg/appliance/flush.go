package appliance

import (
	fx "github.com/robotalks/ident.go/pkg/framework"
)

// FlushController returns the control-loop hook issuing periodic
// durable flushes. Flushes run only from the loop's single context,
// which keeps them strictly ordered.
func (a *Appliance) FlushController() fx.Controller {
	return fx.ControlFunc(func(fx.ControlContext) error {
		return a.FlushCounter()
	})
}
