package helpers

import (
	"sort"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// TickArraySequence is an ordered, read-only view over the tick arrays around
// the active tick.
type TickArraySequence struct {
	arrays      []types.TickArray
	tickSpacing int32
}

func NewTickArraySequence(tickArrays []types.TickArray, tickSpacing uint16) (*TickArraySequence, error) {
	if len(tickArrays) == 0 || tickSpacing == 0 {
		return nil, types.ErrInvalidArguments
	}

	arrays := make([]types.TickArray, len(tickArrays))
	copy(arrays, tickArrays)
	sort.Slice(arrays, func(i, j int) bool {
		return arrays[i].StartTickIndex < arrays[j].StartTickIndex
	})

	return &TickArraySequence{arrays: arrays, tickSpacing: int32(tickSpacing)}, nil
}

func (s *TickArraySequence) width() int32 {
	return s.tickSpacing * constants.TickArraySize
}

func (s *TickArraySequence) StartIndex() int32 {
	return s.arrays[0].StartTickIndex
}

func (s *TickArraySequence) EndIndex() int32 {
	return s.arrays[len(s.arrays)-1].StartTickIndex + s.width() - 1
}

// Tick returns the tick at index, or false if it is not covered by the
// sequence or not aligned to the tick spacing.
func (s *TickArraySequence) Tick(index int32) (types.Tick, bool) {
	if floorMod(index, s.tickSpacing) != 0 {
		return types.Tick{}, false
	}
	for _, array := range s.arrays {
		if index >= array.StartTickIndex && index < array.StartTickIndex+s.width() {
			return array.Ticks[(index-array.StartTickIndex)/s.tickSpacing], true
		}
	}
	return types.Tick{}, false
}

// NextInitializedTick searches from currentTickIndex in the swap direction.
// A to B searches down including the current tick, B to A searches up
// excluding it. If no initialized tick is found the last tick covered by the
// sequence is returned with initialized == false.
func (s *TickArraySequence) NextInitializedTick(currentTickIndex int32, aToB bool) (int32, bool, error) {
	start, end := s.StartIndex(), s.EndIndex()

	if aToB {
		i := floorDiv(currentTickIndex, s.tickSpacing) * s.tickSpacing
		if i < start {
			return 0, false, types.ErrTickArraySequenceExhausted
		}
		for ; i >= start; i -= s.tickSpacing {
			if tick, ok := s.Tick(i); ok && tick.Initialized {
				return i, true, nil
			}
		}
		return max(start, constants.MinTickIndex), false, nil
	}

	i := (floorDiv(currentTickIndex, s.tickSpacing) + 1) * s.tickSpacing
	if i > end {
		return 0, false, types.ErrTickArraySequenceExhausted
	}
	for ; i <= end; i += s.tickSpacing {
		if tick, ok := s.Tick(i); ok && tick.Initialized {
			return i, true, nil
		}
	}
	last := floorDiv(end, s.tickSpacing) * s.tickSpacing
	return min(last, constants.MaxTickIndex), false, nil
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int32) int32 {
	return a - floorDiv(a, b)*b
}
