// File: pkg/basepage/drag.go
package basepage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
)

// ErrAmbiguousDropTarget rejects a drag whose destination is not exactly one
// of an element or a pixel offset.
var ErrAmbiguousDropTarget = errors.New("drag target must be exactly one of element or offset")

// DropTarget is the destination of a drag: either another element or an
// offset in pixels relative to the source. Exactly one must be set.
type DropTarget struct {
	Element any
	Offset  *driver.Point
}

// DragAndDrop presses on the source element, moves to the drop target and
// releases. Source parameters come from WithParams, target parameters from
// WithTargetParams.
func (p *BasePage) DragAndDrop(ctx context.Context, source any, target DropTarget, opts ...CallOption) error {
	if (target.Element == nil) == (target.Offset == nil) {
		return ErrAmbiguousDropTarget
	}

	co := applyOpts(opts)
	src, err := ensure(p.getOne(ctx, source, true, false, nil, "Element was never visible!", co))
	if err != nil {
		return err
	}

	if target.Offset != nil {
		p.logger.Debug("Dragging to offset.",
			zap.Float64("x", target.Offset.X), zap.Float64("y", target.Offset.Y))
		return p.drv.Actions().
			ClickAndHold(src).
			MoveByOffset(target.Offset.X, target.Offset.Y).
			Release().
			Perform(ctx)
	}

	tco := *co
	tco.params = co.targetParams
	dst, err := ensure(p.getOne(ctx, target.Element, true, false, nil, "Element was never visible!", &tco))
	if err != nil {
		return err
	}

	p.logger.Debug("Dragging to element.")
	return p.drv.Actions().
		ClickAndHold(src).
		MoveTo(dst).
		Release().
		Perform(ctx)
}
