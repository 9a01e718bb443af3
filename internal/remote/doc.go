// Package remote stands in for the handheld IR remote on a host.
//
// Ownership boundary:
//   - Sim: turns button presses into the falling-edge train the calibrated
//     remote produces, timestamped by a wrapping down-counter.
//   - Keyboard: binds terminal keys to buttons and drives a press function.
//
// Nothing here decodes; decoding belongs to internal/ir.
package remote
