package registry

import (
	"github.com/gridflow-io/gridflow/pkg/behaviors/constant"
	"github.com/gridflow-io/gridflow/pkg/behaviors/delay"
	"github.com/gridflow-io/gridflow/pkg/behaviors/httprequest"
	logbehavior "github.com/gridflow-io/gridflow/pkg/behaviors/log"
	"github.com/gridflow-io/gridflow/pkg/behaviors/merge"
	"github.com/gridflow-io/gridflow/pkg/behaviors/transform"
	"github.com/gridflow-io/gridflow/pkg/behaviors/uppercase"
)

// RegisterDefaultBehaviors registers all built-in behavior factories.
func (r *Registry) RegisterDefaultBehaviors() {
	r.MustRegisterBehavior(constant.NewFactory())
	r.MustRegisterBehavior(uppercase.NewFactory())
	r.MustRegisterBehavior(transform.NewFactory())
	r.MustRegisterBehavior(merge.NewFactory())
	r.MustRegisterBehavior(delay.NewFactory())
	r.MustRegisterBehavior(logbehavior.NewFactory(r.logger))
	r.MustRegisterBehavior(httprequest.NewFactory())
}
