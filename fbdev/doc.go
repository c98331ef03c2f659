// Package fbdev drives planes backed by Linux framebuffer devices.
//
// Every plane is one /dev/fbN node. The pan window maps onto the
// FBIOPAN_DISPLAY offset, reallocation resizes the virtual resolution with
// FBIOPUT_VSCREENINFO, and Map memory-maps the device for the duration of one
// push. Mapped pixels are written in the plane's own layout, row pitch and
// alpha included, so a push replaces what was there. fbdev has no per-plane position or scale registers; those values are
// staged and reported at debug level only.
//
//	reg := planes.NewRegistry(fbdev.Opener("/dev/fb0", "/dev/fb1"))
//	if err := reg.Load("screen.yaml"); err != nil {
//		log.Fatal(err)
//	}
//	defer reg.Close()
//
// Devices are available on Linux only.
package fbdev
