// Package geo holds the small amount of geodesy needed to report where a photo
// was taken: degree/minute/second conversion, great-circle distance, initial
// bearing and compass names, and geometry encodings for output and storage.
package geo
