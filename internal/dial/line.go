package dial

// LineReader reports the instantaneous level of a binary input line.
// Implementations exist for sysfs GPIO lines and for the synthetic
// simulator; nothing in the decoding core touches hardware directly.
type LineReader interface {
	// Closed reports whether the line currently carries current. For
	// the dial loop that means "not in a break pulse"; for the hook
	// switch it means the handset is lifted.
	Closed() (bool, error)
}
