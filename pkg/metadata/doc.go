// Package metadata reads capture timestamps, GPS position and camera details
// embedded in media files.
//
// Photos are read through EXIF; MP4 and QuickTime videos through the movie
// header box. Extraction is best effort: a file without readable metadata
// yields a nil record, not an error.
package metadata
