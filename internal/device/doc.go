// Package device wires the pager together: interrupt-style entry points feed
// bounded queues, and a single polling loop decodes presses, drives the
// keypad, talks to the peer and redraws the screen.
//
// Ownership boundary:
//   - Device: OnEdge/OnByte/OnTick producers, Poll consumer, mode machine.
//   - Service: process lifecycle; opens the transport, starts the receiver,
//     tick source, simulated remote, keyboard and admin surface.
//
// Decoding lives in internal/ir, text entry in internal/keypad, framing in
// internal/peer. Device only routes between them.
package device
