package raster

import "github.com/pudnax/compaster/internal/compute"

// ClearPass resets every color-buffer cell to its background pixel.
type ClearPass struct {
	Background Pixel
}

// Run dispatches one unit of work per pixel index. Each write is independent,
// idempotent and order-free; Run returns after the whole buffer is reset, so
// the raster pass never observes a partially cleared frame.
func (p ClearPass) Run(d *compute.Dispatcher, b *Bindings) {
	buf := b.Color
	bg := p.Background
	d.Dispatch(len(buf), func(i int) {
		buf[i] = bg
	})
}
