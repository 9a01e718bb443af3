// Package peer owns the device-to-device wire format.
//
// A frame is three fields joined by Separator and closed by Terminator:
//
//	username~color~body\x00
//
// There is no escaping. A separator inside a field shifts the remaining
// fields on the receiving side; callers keep the separator out of usernames
// and bodies (the keypad cannot type it).
package peer
