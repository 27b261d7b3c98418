package frame

// SmileySize is the edge length of the default frame.
const SmileySize = 128

// Smiley returns the default 128×128 frame shown when a script produces
// nothing to display: two square eyes and a smile.
func Smiley() *Frame {
	f := Blank(SmileySize, SmileySize)
	on := func(x, y int) { f.pix[y][x] = true }

	for y := 50; y <= 58; y++ {
		for x := 50; x <= 58; x++ {
			on(x, y)
		}
		for x := 70; x <= 78; x++ {
			on(x, y)
		}
	}

	for x := 55; x <= 73; x++ {
		on(x, 75)
		on(x, 80)
	}

	for i := 0; i < 4; i++ {
		on(55+i, 76+i)
		on(73-i, 76+i)
	}
	return f
}
