// Package ir turns captured edge intervals into remote-control frames.
//
// The receiver only timestamps falling edges, so every data bit is one
// interval: a long gap is a one, a short gap is a zero. A frame starts after
// the leader burst, the first interval longer than the calibrated leader
// threshold. Thresholds, width, group code and bit order are calibration,
// not protocol truths; they live in Calibration and can be loaded from a
// remote profile.
package ir
