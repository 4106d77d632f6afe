package presets

import (
	"embed"
)

// FS provides embedded rules presets for external usage.
//
//go:embed *.yaml
var FS embed.FS
