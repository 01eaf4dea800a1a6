// Package svgdevice drives the laser controller: it turns
// commands into device directives, paces them and writes
// them to a transport.
//
// The controller understands one directive per line:
//
//	m <x>,<z>   move the mirrors
//	l on|off    switch the laser
//	s <mode>    switch the controller mode
package svgdevice

import "fmt"

// Directive is one instruction understood by the controller.
// It is implemented by Position, Laser and Mode.
type Directive interface {
	fmt.Stringer
	isDirective()
}

// Position moves the beam to the given device coordinates.
type Position struct{ X, Z int }

// Laser switches the laser on or off.
type Laser bool

// Mode switches the controller mode.
type Mode string

const (
	// ModeDelegate lets the host drive the mirrors.
	ModeDelegate Mode = "delegate"
	// ModeRoam lets the controller animate on its own.
	ModeRoam Mode = "roam"
)

func (p Position) String() string { return fmt.Sprintf("m %d,%d", p.X, p.Z) }

func (l Laser) String() string {
	if l {
		return "l on"
	}
	return "l off"
}

func (m Mode) String() string { return "s " + string(m) }

func (Position) isDirective() {}
func (Laser) isDirective()    {}
func (Mode) isDirective()     {}
