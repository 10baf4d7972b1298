// Package filename recovers capture timestamps embedded in media filenames.
//
// Every pattern of a fixed catalogue is applied to the whole filename, so one
// name can yield several independent candidates. Candidates outside the plausible
// window (see Plausible) are dropped, near-identical ones are collapsed and the
// remainder is ranked by the reliability of the pattern that produced it.
package filename
