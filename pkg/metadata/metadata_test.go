package metadata

import (
	"bytes"
	"io"
	"math"
	"testing"
	"time"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func TestEXIF_ExtractsTimestampsGPSAndCamera(t *testing.T) {
	rec, err := EXIF{Location: tokyo}.Extract("a.tif", bytes.NewReader(sampleTIFF()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}

	times := []struct {
		name string
		got  *time.Time
		want time.Time
	}{
		{"original", rec.Original, time.Date(2023, 6, 15, 14, 30, 0, 0, tokyo)},
		{"digitized", rec.Digitized, time.Date(2023, 6, 15, 14, 30, 1, 0, tokyo)},
		{"modified", rec.Modified, time.Date(2023, 6, 16, 9, 0, 0, 0, tokyo)},
	}
	for _, tc := range times {
		if tc.got == nil || !tc.got.Equal(tc.want) {
			t.Fatalf("unexpected %s\n got: %v\nwant: %v", tc.name, tc.got, tc.want)
		}
	}

	if rec.Offset != "+09:00" {
		t.Fatalf("unexpected offset: %q", rec.Offset)
	}
	if rec.Camera != (Camera{Make: "FUJIFILM", Model: "X-T4"}) {
		t.Fatalf("unexpected camera: %+v", rec.Camera)
	}

	if rec.GPS == nil {
		t.Fatalf("expected GPS")
	}
	if math.Abs(rec.GPS.Point.Lat-35.6586) > 1e-9 || math.Abs(rec.GPS.Point.Lon-139.7454) > 1e-9 {
		t.Fatalf("unexpected position: %+v", rec.GPS.Point)
	}
	if rec.GPS.Altitude == nil || *rec.GPS.Altitude != 333 {
		t.Fatalf("unexpected altitude: %v", rec.GPS.Altitude)
	}
}

func TestEXIF_BelowSeaLevel(t *testing.T) {
	data := buildTIFF(nil, nil, []ifdEntry{
		asciiEntry(0x0001, "S"),
		rationalEntry(0x0002, [2]uint32{31, 1}, [2]uint32{30, 1}, [2]uint32{0, 1}),
		asciiEntry(0x0003, "E"),
		rationalEntry(0x0004, [2]uint32{35, 1}, [2]uint32{30, 1}, [2]uint32{0, 1}),
		byteEntry(0x0005, 1),
		rationalEntry(0x0006, [2]uint32{430, 1}),
	})

	rec, err := EXIF{Location: time.UTC}.Extract("dead-sea.tif", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.GPS == nil {
		t.Fatalf("expected GPS, got %+v", rec)
	}
	if rec.GPS.Point.Lat != -31.5 || rec.GPS.Point.Lon != 35.5 {
		t.Fatalf("unexpected position: %+v", rec.GPS.Point)
	}
	if rec.GPS.Altitude == nil || *rec.GPS.Altitude != -430 {
		t.Fatalf("unexpected altitude: %v", rec.GPS.Altitude)
	}
	if rec.Original != nil {
		t.Fatalf("expected no timestamps, got %v", rec.Original)
	}
}

func TestEXIF_ZeroDateIsIgnored(t *testing.T) {
	data := buildTIFF([]ifdEntry{asciiEntry(0x0132, "0000:00:00 00:00:00")}, nil, nil)

	rec, err := EXIF{Location: time.UTC}.Extract("a.tif", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}
}

func TestEXIF_NonExifDataIsNotFound(t *testing.T) {
	rec, err := EXIF{}.Extract("a.jpg", bytes.NewReader([]byte("not a jpeg")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}
}

func TestMP4_ExtractsMovieHeaderTimes(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	modified := created.Add(time.Hour)

	rec, err := MP4{Location: tokyo}.Extract("a.mp4", bytes.NewReader(buildMP4(created, modified)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}
	if rec.Original == nil || !rec.Original.Equal(created) {
		t.Fatalf("unexpected Original\n got: %v\nwant: %v", rec.Original, created)
	}
	if rec.Original.Location() != tokyo {
		t.Fatalf("expected times in the configured location, got %v", rec.Original.Location())
	}
	if rec.Modified == nil || !rec.Modified.Equal(modified) {
		t.Fatalf("unexpected Modified\n got: %v\nwant: %v", rec.Modified, modified)
	}
	if rec.Digitized != nil {
		t.Fatalf("expected no digitized time, got %v", rec.Digitized)
	}
}

func TestMP4_UnsetTimesAreNotFound(t *testing.T) {
	rec, err := MP4{}.Extract("a.mp4", bytes.NewReader(buildMP4(time.Time{}, time.Time{})))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}
}

func TestMP4_AcceptsPlainReader(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := io.MultiReader(bytes.NewReader(buildMP4(created, created)))

	rec, err := MP4{Location: time.UTC}.Extract("a.mov", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Original == nil || !rec.Original.Equal(created) {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDefault_DispatchesByExtension(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	x := Default(Options{Location: time.UTC})

	rec, err := x.Extract("clip.MOV", bytes.NewReader(buildMP4(created, created)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Original == nil || !rec.Original.Equal(created) {
		t.Fatalf("expected the video extractor, got %+v", rec)
	}

	rec, err = x.Extract("photo.tif", bytes.NewReader(sampleTIFF()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Camera.Make != "FUJIFILM" {
		t.Fatalf("expected the EXIF extractor, got %+v", rec)
	}
}
