package experiment

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// ErrMalformedFilename reports a frame filename that carries no parseable
// decimal index. This is fatal for the affected unit.
var ErrMalformedFilename = errors.New("frame filename has no numeric index")

var digitRun = regexp.MustCompile(`[0-9]+`)

// frameIndex extracts the first maximal run of decimal digits from a
// filename and parses it as the frame index.
func frameIndex(name string) (int, error) {
	run := digitRun.FindString(name)
	if run == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFilename, name)
	}
	idx, err := strconv.Atoi(run)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFilename, name)
	}
	return idx, nil
}

// OrderFrames sorts frame filenames ascending by their embedded numeric
// index. The sort is stable: filenames with equal indices keep their original
// relative order. The input slice is not modified.
//
// Returns ErrMalformedFilename if any filename contains no digit run.
func OrderFrames(names []string) ([]string, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx, err := frameIndex(name)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	ordered := make([]string, len(names))
	order := make([]int, len(names))
	copy(ordered, names)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return indices[order[a]] < indices[order[b]]
	})
	for i, o := range order {
		ordered[i] = names[o]
	}
	return ordered, nil
}
