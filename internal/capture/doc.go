// Package capture owns the interrupt side of the IR receiver.
//
// Ownership boundary:
// - wrap-correct counter differencing
//
// - the fixed-capacity edge interval buffer
//
// - bounded single-producer/single-consumer queues between interrupt
// context and the main loop
//
// Nothing in this package blocks or allocates after construction.
package capture
