package registry

import (
	"fmt"

	"github.com/zeusync/ecs/internal/core/genindex"
)

// ErrCorrupt wraps genindex.ErrCorrupt for breaches detected at registry level.
// Like its parent it is only ever raised through a panic.
var ErrCorrupt = fmt.Errorf("registry: %w", genindex.ErrCorrupt)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
