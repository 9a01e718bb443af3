// Package keypad emulates multi-tap phone-style text entry on top of decoded
// remote command codes.
//
// Ownership boundary:
// - the button table (command code -> character group, delete, send)
//
// - the bounded composition and its cycle state
//
// - local command parsing ("/c red", "/u name")
//
// The emulator is owned by the main loop and is not safe for concurrent use.
package keypad
