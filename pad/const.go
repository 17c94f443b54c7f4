package pad

// Button bitmasks for a DualShock-style controller.
const (
	ButtonSelect    = 0x0001
	ButtonL3        = 0x0002
	ButtonR3        = 0x0004
	ButtonStart     = 0x0008
	ButtonDPadUp    = 0x0010
	ButtonDPadRight = 0x0020
	ButtonDPadDown  = 0x0040
	ButtonDPadLeft  = 0x0080
	ButtonL2        = 0x0100
	ButtonR2        = 0x0200
	ButtonL1        = 0x0400
	ButtonR1        = 0x0800
	ButtonTriangle  = 0x1000
	ButtonCircle    = 0x2000
	ButtonCross     = 0x4000
	ButtonSquare    = 0x8000
)

// DefaultGesture is the combo that toggles emulation: L3+R3+Start held
// simultaneously.
const DefaultGesture = ButtonL3 | ButtonR3 | ButtonStart
