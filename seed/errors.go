package seed

import "errors"

// ErrCouldNotSeedAll is returned when the interior grid fallback runs out of
// stage before every musician left over from the perimeter assignment could
// be placed. This should only happen on pathologically dense problems.
var ErrCouldNotSeedAll = errors.New("seed: could not place every musician")
