// Package transport moves peer frames over a byte stream.
//
// Ownership boundary:
// - opening ports (UART, TCP, NATS subjects)
//
// - the blocking sender (one outstanding frame)
//
// - the receive pump that hands inbound bytes to the device one at a time
package transport
