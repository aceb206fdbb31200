package board

import "github.com/google/uuid"

// ID prefixes per entity kind.
const (
	PrefixWorkspace = "ws"
	PrefixSection   = "sec"
	PrefixCard      = "card"
	PrefixSubtask   = "sub"
)

// NewID returns a fresh identifier such as "card-1b4e28ba-2fa1-11d2-883f-0016d3cca427".
// Random UUIDs keep ids unique for the lifetime of the board without any
// registry of ids already handed out.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
