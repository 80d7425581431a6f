package measure

import (
	"fmt"
	"math"
)

// LengthUnit is a unit of length. Pixel is the raw image unit; the others
// are physical.
type LengthUnit int

const (
	Pixel LengthUnit = iota
	Nanometer
	Micrometer
	Millimeter
	Centimeter
	Meter
)

// metres per unit; Pixel has no physical size of its own
var unitScale = map[LengthUnit]float64{
	Nanometer:  1e-9,
	Micrometer: 1e-6,
	Millimeter: 1e-3,
	Centimeter: 1e-2,
	Meter:      1,
}

var unitSymbol = map[LengthUnit]string{
	Pixel:      "px",
	Nanometer:  "nm",
	Micrometer: "µm",
	Millimeter: "mm",
	Centimeter: "cm",
	Meter:      "m",
}

// Symbol returns the short symbol of the unit
func (u LengthUnit) Symbol() string {
	if s, ok := unitSymbol[u]; ok {
		return s
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// Physical reports whether the unit has a physical size
func (u LengthUnit) Physical() bool {
	_, ok := unitScale[u]
	return ok
}

// ParseLengthUnit accepts unit symbols and their spelled out names
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch s {
	case "px", "pixel", "pixels":
		return Pixel, nil
	case "nm", "nanometer", "nanometers":
		return Nanometer, nil
	case "µm", "um", "micron", "microns", "micrometer", "micrometers":
		return Micrometer, nil
	case "mm", "millimeter", "millimeters":
		return Millimeter, nil
	case "cm", "centimeter", "centimeters":
		return Centimeter, nil
	case "m", "meter", "meters":
		return Meter, nil
	}
	return Pixel, fmt.Errorf("unknown length unit %q", s)
}

// Length is a measurement paired with its unit
type Length struct {
	Value float64
	Unit  LengthUnit
}

// Convert expresses the length in another physical unit. Pixel lengths and
// conversions to Pixel are not handled here; see Units.
func (l Length) Convert(to LengthUnit) (Length, error) {
	from, ok := unitScale[l.Unit]
	if !ok {
		return l, fmt.Errorf("cannot convert from %s", l.Unit.Symbol())
	}
	dst, ok := unitScale[to]
	if !ok {
		return l, fmt.Errorf("cannot convert to %s", to.Symbol())
	}
	return Length{Value: l.Value * from / dst, Unit: to}, nil
}

// Readable picks the physical unit that puts the magnitude in [1, 1000),
// falling back to nanometres for tiny values and metres for huge ones.
// Zero and pixel lengths are returned unchanged.
func (l Length) Readable() Length {
	if !l.Unit.Physical() || l.Value == 0 {
		return l
	}
	metres := l.Value * unitScale[l.Unit]
	abs := math.Abs(metres)
	for _, u := range []LengthUnit{Nanometer, Micrometer, Millimeter} {
		if abs < unitScale[u]*1000 {
			return Length{Value: metres / unitScale[u], Unit: u}
		}
	}
	return Length{Value: metres, Unit: Meter}
}

// Units describes how lengths are shown: in pixels, or in physical units
// using the size of one pixel.
type Units struct {
	// Physical selects physical unit display; false shows pixels
	Physical bool

	// PixelSize is the physical edge length of one pixel. A zero value
	// means the size is unknown.
	PixelSize Length
}

// PixelUnits is the default descriptor showing raw pixel values
var PixelUnits = Units{}

// ToPhysical converts a pixel length using the pixel size. The second
// result is false when no pixel size is known.
func (u Units) ToPhysical(l Length) (Length, bool) {
	if l.Unit.Physical() {
		return l, true
	}
	if u.PixelSize.Value <= 0 || !u.PixelSize.Unit.Physical() {
		return l, false
	}
	return Length{Value: l.Value * u.PixelSize.Value, Unit: u.PixelSize.Unit}, true
}

// ToPixels converts a physical length back to pixels. The second result is
// false when no pixel size is known.
func (u Units) ToPixels(l Length) (Length, bool) {
	if !l.Unit.Physical() {
		return l, true
	}
	if u.PixelSize.Value <= 0 || !u.PixelSize.Unit.Physical() {
		return l, false
	}
	conv, err := l.Convert(u.PixelSize.Unit)
	if err != nil {
		return l, false
	}
	return Length{Value: conv.Value / u.PixelSize.Value, Unit: Pixel}, true
}
