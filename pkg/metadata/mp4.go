package metadata

import (
	"bytes"
	"io"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// mp4EpochOffset is the number of seconds between 1904-01-01 and 1970-01-01.
const mp4EpochOffset = 2082844800

// MP4 extracts the movie header times from MP4 and QuickTime streams.
// The header holds UTC instants; they are reported in Location.
type MP4 struct {
	Location *time.Location
}

func (m MP4) Extract(path string, r io.Reader) (*Record, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrapf(err, "metadata: read %s", path)
		}
		rs = bytes.NewReader(data)
	}

	boxes, err := mp4.ExtractBoxWithPayload(rs, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		zap.L().Debug("metadata: no movie header", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	if len(boxes) == 0 {
		return nil, nil
	}
	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return nil, nil
	}

	created, modified := uint64(mvhd.CreationTimeV0), uint64(mvhd.ModificationTimeV0)
	if mvhd.GetVersion() > 0 {
		created, modified = mvhd.CreationTimeV1, mvhd.ModificationTimeV1
	}

	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	rec := &Record{
		Original: mp4Time(created, loc),
		Modified: mp4Time(modified, loc),
	}
	if rec.empty() {
		return nil, nil
	}
	return rec, nil
}

// mp4Time converts a header timestamp. Zero and pre-1970 values are treated
// as unset; encoders commonly leave the field blank.
func mp4Time(v uint64, loc *time.Location) *time.Time {
	if v <= mp4EpochOffset {
		return nil
	}
	t := time.Unix(int64(v-mp4EpochOffset), 0).In(loc)
	return &t
}
