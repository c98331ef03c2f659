//go:build linux

package fbdev

import (
	"unsafe"

	"github.com/phanxgames/planes"
	"golang.org/x/sys/unix"
)

// Requests from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioPanDisplay     = 0x4606
)

// fbBitfield mirrors struct fb_bitfield.
type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fixScreenInfo mirrors struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID                            [16]byte
	SmemStart                     uintptr
	SmemLen                       uint32
	Type, TypeAux                 uint32
	Visual                        uint32
	XPanStep, YPanStep, YWrapStep uint16
	LineLength                    uint32
	MMIOStart                     uintptr
	MMIOLen                       uint32
	Accel                         uint32
	Capabilities                  uint16
	Reserved                      [2]uint16
}

func ioctl(fd int, req uintptr, v unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(v))
	if errno != 0 {
		return errno
	}
	return nil
}

func getVarInfo(fd int) (varScreenInfo, error) {
	var v varScreenInfo
	err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&v))
	return v, err
}

func getFixInfo(fd int) (fixScreenInfo, error) {
	var f fixScreenInfo
	err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&f))
	return f, err
}

func putVarInfo(fd int, v *varScreenInfo) error {
	return ioctl(fd, fbioPutVScreenInfo, unsafe.Pointer(v))
}

func panDisplay(fd int, v *varScreenInfo) error {
	return ioctl(fd, fbioPanDisplay, unsafe.Pointer(v))
}

// formatOf reads the pixel format described by v.
func formatOf(v varScreenInfo) (planes.PixelFormat, bool) {
	switch v.BitsPerPixel {
	case 16:
		if v.Red.Offset == 11 && v.Green.Length == 6 {
			return planes.FormatRGB565, true
		}
	case 32:
		switch {
		case v.Red.Offset == 24:
			return planes.FormatRGBA8888, true
		case v.Red.Offset == 16 && v.Transp.Length == 8:
			return planes.FormatARGB8888, true
		case v.Red.Offset == 16:
			return planes.FormatXRGB8888, true
		}
	}
	return 0, false
}

// setFormat writes the channel layout of f into v.
func setFormat(v *varScreenInfo, f planes.PixelFormat) {
	v.BitsPerPixel = uint32(f.BitsPerPixel())
	v.Transp = fbBitfield{}
	switch f {
	case planes.FormatRGB565:
		v.Red = fbBitfield{Offset: 11, Length: 5}
		v.Green = fbBitfield{Offset: 5, Length: 6}
		v.Blue = fbBitfield{Offset: 0, Length: 5}
	case planes.FormatRGBA8888:
		v.Red = fbBitfield{Offset: 24, Length: 8}
		v.Green = fbBitfield{Offset: 16, Length: 8}
		v.Blue = fbBitfield{Offset: 8, Length: 8}
		v.Transp = fbBitfield{Offset: 0, Length: 8}
	default:
		v.Red = fbBitfield{Offset: 16, Length: 8}
		v.Green = fbBitfield{Offset: 8, Length: 8}
		v.Blue = fbBitfield{Offset: 0, Length: 8}
		if f.HasAlpha() {
			v.Transp = fbBitfield{Offset: 24, Length: 8}
		}
	}
}
