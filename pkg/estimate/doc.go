// Package estimate reconciles conflicting capture-time evidence into a single
// best estimate.
//
// Candidates come from embedded metadata (original, digitized and modified
// timestamps), from filename patterns (see package filename) and from the file
// modification time. Each carries a fixed reliability prior. The estimator
// checks every pair of candidates for agreement, picks a winner (the camera's
// own capture time if present, otherwise a consensus or the most reliable
// source) and reports a confidence score with explanatory warnings.
//
// Estimation is a pure function of its inputs.
package estimate
