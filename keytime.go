package motion

import (
	"fmt"
	"math"
	"slices"
	"time"
)

type keyTimeKind uint8

const (
	keyTimeUniform keyTimeKind = iota
	keyTimeFixed
	keyTimePercent
	keyTimePaced
)

// KeyTime positions a key frame inside its animation. The zero value is
// Uniform.
type KeyTime struct {
	kind    keyTimeKind
	at      time.Duration
	percent float64
}

// KeyTimeAt fixes a key frame at an absolute offset.
func KeyTimeAt(d time.Duration) KeyTime { return KeyTime{kind: keyTimeFixed, at: d} }

// KeyTimePercent fixes a key frame at a fraction of the total duration.
func KeyTimePercent(p float64) KeyTime {
	return KeyTime{kind: keyTimePercent, percent: clamp01(p)}
}

var (
	// KeyTimeUniform spreads unfixed key frames evenly between anchors.
	KeyTimeUniform = KeyTime{kind: keyTimeUniform}
	// KeyTimePaced spreads key frames by how far their values move.
	KeyTimePaced = KeyTime{kind: keyTimePaced}
)

// IsFixed reports whether the key time is an absolute offset or a percent.
func (k KeyTime) IsFixed() bool { return k.kind == keyTimeFixed || k.kind == keyTimePercent }

// IsPaced reports whether the key time is Paced.
func (k KeyTime) IsPaced() bool { return k.kind == keyTimePaced }

func (k KeyTime) String() string {
	switch k.kind {
	case keyTimeFixed:
		return k.at.String()
	case keyTimePercent:
		return fmt.Sprintf("%g%%", k.percent*100)
	case keyTimePaced:
		return "Paced"
	}
	return "Uniform"
}

// fixed returns the absolute time of a fixed key time within total.
func (k KeyTime) fixed(total time.Duration) time.Duration {
	if k.kind == keyTimePercent {
		return time.Duration(math.Round(k.percent * float64(total)))
	}
	return k.at
}

// ResolvedKeyTime is one entry of a resolved schedule.
type ResolvedKeyTime struct {
	Index int
	Time  time.Duration
}

// ResolveKeyTimes turns the key times of values into absolute offsets.
//
// Runs of consecutive unfixed key times are bounded by the neighbouring
// fixed frames, or by 0 and total at the ends of the sequence. A run made
// only of Paced frames is allocated by cumulative distance when distance is
// non-nil; every other run divides its span into equal intervals, reserving
// the final interval for a bounding anchor when there is one. The result is
// sorted by time, ties by original index.
func ResolveKeyTimes[T any](keyTimes []KeyTime, values []T, start T, total time.Duration, distance func(a, b T) float64) []ResolvedKeyTime {
	n := len(keyTimes)
	if n == 0 {
		return nil
	}
	times := make([]time.Duration, n)
	for i := 0; i < n; {
		if keyTimes[i].IsFixed() {
			times[i] = keyTimes[i].fixed(total)
			i++
			continue
		}
		runStart := i
		for i < n && !keyTimes[i].IsFixed() {
			i++
		}
		runEnd := i // exclusive; a fixed anchor sits here when runEnd < n

		lo, hi := time.Duration(0), total
		prev := start
		if runStart > 0 {
			lo = times[runStart-1]
			prev = values[runStart-1]
		}
		anchored := runEnd < n
		if anchored {
			hi = keyTimes[runEnd].fixed(total)
		}
		span := float64(hi - lo)
		length := runEnd - runStart

		if distance != nil && allPaced(keyTimes[runStart:runEnd]) {
			cum := make([]float64, length)
			sum := 0.0
			last := prev
			for j := 0; j < length; j++ {
				sum += distance(last, values[runStart+j])
				cum[j] = sum
				last = values[runStart+j]
			}
			if anchored {
				sum += distance(last, values[runEnd])
			}
			if sum > 1e-9 {
				for j := 0; j < length; j++ {
					times[runStart+j] = lo + time.Duration(math.Round(span*cum[j]/sum))
				}
				continue
			}
		}

		slots := length
		if anchored {
			slots++
		}
		for j := 0; j < length; j++ {
			times[runStart+j] = lo + time.Duration(math.Round(span*float64(j+1)/float64(slots)))
		}
	}

	out := make([]ResolvedKeyTime, n)
	for i := range out {
		out[i] = ResolvedKeyTime{Index: i, Time: times[i]}
	}
	slices.SortStableFunc(out, func(a, b ResolvedKeyTime) int {
		if a.Time != b.Time {
			if a.Time < b.Time {
				return -1
			}
			return 1
		}
		return a.Index - b.Index
	})
	return out
}

func allPaced(kts []KeyTime) bool {
	for _, k := range kts {
		if !k.IsPaced() {
			return false
		}
	}
	return true
}
