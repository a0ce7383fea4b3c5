package pipeline

import (
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places the flowers of opts.Spec in an opts.Width by
// opts.Height frame. Callers are expected to have run ValidateForLayout.
func GenerateLayout(opts Options) layout.Layout {
	var layoutOpts []layout.Option
	if opts.Jitter != nil {
		layoutOpts = append(layoutOpts, layout.WithJitter(*opts.Jitter))
	}
	return layout.Build(opts.Spec, opts.Width, opts.Height, layoutOpts...)
}
