package keypad

import "gbacore/internal/savestate/codec"

// SaveState writes KEYINPUT/KEYCNT, the save-state's final component.
func (k *Keypad) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	s.U16(k.keyinput)
	s.U16(k.keycnt)
	return s.Err()
}

func (k *Keypad) LoadState(r interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r)
	k.keyinput = s.U16()
	k.keycnt = s.U16()
	return s.Err()
}
