package dimension

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/radiant-maxar/geowave/internal/sfcerr"
)

// Definition kind tags for ToBinary/FromBinary. Only the three
// constructors this package exposes are representable; a Binned
// dimension built from an arbitrary caller-supplied BinningStrategy has
// no persistable form, matching how real deployments only ever persist
// a closed set of named binning strategies.
const (
	kindBounded       = 0
	kindPeriodic      = 1
	kindCalendarBinned = 2
)

func putFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

func takeFloat64(data []byte) (float64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, errors.Wrap(sfcerr.ErrCorruptFormat, "dimension: truncated float64")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), data[8:], nil
}

// ToBinary serializes d. Returns an error if d is a Binned dimension
// constructed with a strategy other than NewCalendarBinned's.
func ToBinary(d Definition) ([]byte, error) {
	name := d.Name()
	header := binary.AppendUvarint(nil, uint64(len(name)))
	header = append(header, name...)

	switch v := d.(type) {
	case *Periodic:
		buf := append([]byte{kindPeriodic}, header...)
		buf = putFloat64(buf, v.Min())
		buf = putFloat64(buf, v.Max())
		return buf, nil
	case *Bounded:
		buf := append([]byte{kindBounded}, header...)
		buf = putFloat64(buf, v.Min())
		buf = putFloat64(buf, v.Max())
		return buf, nil
	case *Binned:
		if !v.calendar {
			return nil, fmt.Errorf("dimension %q: binning strategy is not serializable", name)
		}
		buf := append([]byte{kindCalendarBinned}, header...)
		buf = binary.AppendUvarint(buf, uint64(v.fixedBinIDSize))
		buf = append(buf, byte(v.calendarOf))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.refEpoch.Unix()))
		return buf, nil
	default:
		return nil, fmt.Errorf("dimension %q: unsupported definition type %T", name, d)
	}
}

// FromBinary reconstructs a Definition from ToBinary's output.
func FromBinary(data []byte) (Definition, error) {
	if len(data) < 1 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "dimension: empty definition")
	}
	kind := data[0]
	data = data[1:]

	nameLen, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < nameLen {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "dimension: truncated name")
	}
	data = data[n:]
	name := string(data[:nameLen])
	data = data[nameLen:]

	switch kind {
	case kindBounded:
		min, data, err := takeFloat64(data)
		if err != nil {
			return nil, err
		}
		max, _, err := takeFloat64(data)
		if err != nil {
			return nil, err
		}
		return NewBounded(name, min, max)
	case kindPeriodic:
		min, data, err := takeFloat64(data)
		if err != nil {
			return nil, err
		}
		max, _, err := takeFloat64(data)
		if err != nil {
			return nil, err
		}
		return NewPeriodic(name, min, max)
	case kindCalendarBinned:
		fixedBinIDSize, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "dimension: truncated fixedBinIDSize")
		}
		data = data[n:]
		if len(data) < 1+8 {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "dimension: truncated calendar fields")
		}
		unit := CalendarUnit(data[0])
		data = data[1:]
		epoch := int64(binary.LittleEndian.Uint64(data))
		return NewCalendarBinned(name, int(fixedBinIDSize), time.Unix(epoch, 0).UTC(), unit)
	default:
		return nil, errors.Wrapf(sfcerr.ErrCorruptFormat, "dimension: unknown kind tag %d", kind)
	}
}
