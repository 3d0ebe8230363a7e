// Package keypad implements KEYINPUT and KEYCNT, the Keypad register
// block at 0x04000130-0x04000133.
package keypad

import "gbacore/internal/syscontrol"

// Button bit positions within KEYINPUT/KEYCNT, active-low in KEYINPUT.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonR
	ButtonL
)

const allButtons = 0x3FF

// Keypad tracks the host's button state and the IRQ-on-keypress condition
// selected by KEYCNT.
type Keypad struct {
	keyinput uint16 // active-low: bit=0 means pressed
	keycnt   uint16

	irqs *syscontrol.Controller
}

func New(irqs *syscontrol.Controller) *Keypad {
	return &Keypad{keyinput: allButtons, irqs: irqs}
}

// SetPressed updates the host-reported state of one button and evaluates
// the KEYCNT IRQ condition.
func (k *Keypad) SetPressed(b Button, pressed bool) {
	if pressed {
		k.keyinput &^= uint16(b)
	} else {
		k.keyinput |= uint16(b)
	}
	k.evaluateIRQ()
}

func (k *Keypad) evaluateIRQ() {
	if k.keycnt&(1<<14) == 0 {
		return
	}
	mask := k.keycnt & allButtons
	pressedMask := (^k.keyinput) & allButtons
	var condition bool
	if k.keycnt&(1<<15) != 0 {
		condition = pressedMask&mask == mask // logical AND: all selected keys down
	} else {
		condition = pressedMask&mask != 0 // logical OR: any selected key down
	}
	if condition {
		k.irqs.RequestInterrupt(syscontrol.IRQKeypad)
	}
}

func (k *Keypad) ReadKEYINPUT() uint16 { return k.keyinput }

func (k *Keypad) ReadKEYCNT() uint16 { return k.keycnt }

func (k *Keypad) WriteKEYCNT(v uint16) {
	k.keycnt = v
	k.evaluateIRQ()
}
