package model

// DestinationKind discriminates the two destination variants.
type DestinationKind string

// Destination kind constants.
const (
	DestinationTrash  DestinationKind = "trash"
	DestinationFolder DestinationKind = "folder"
)

// Destination is where a classified file should end up: the trash, or a
// folder identified by a human-readable display path. A folder destination
// starts unresolved (display-only) and becomes resolved once the injected
// resolver exchanges its display path for an opaque access token. Trash
// never requires resolution.
type Destination struct {
	Kind        DestinationKind `json:"kind"`
	DisplayPath string          `json:"display_path,omitempty"`
	Token       string          `json:"token,omitempty"`
	Resolved    bool            `json:"resolved,omitempty"`
}

// Trash returns the trash destination.
func Trash() Destination {
	return Destination{Kind: DestinationTrash}
}

// UnresolvedFolder returns a folder destination known only by display path.
func UnresolvedFolder(displayPath string) Destination {
	return Destination{Kind: DestinationFolder, DisplayPath: displayPath}
}

// ResolvedFolder returns a folder destination backed by an access token.
func ResolvedFolder(displayPath, token string) Destination {
	return Destination{Kind: DestinationFolder, DisplayPath: displayPath, Token: token, Resolved: true}
}

// NeedsResolution reports whether the destination must be resolved before
// physical use.
func (d Destination) NeedsResolution() bool {
	return d.Kind == DestinationFolder && !d.Resolved
}

// WithToken returns a resolved copy of a folder destination.
func (d Destination) WithToken(token string) Destination {
	d.Token = token
	d.Resolved = true
	return d
}

// Display returns the human-readable form of the destination.
func (d Destination) Display() string {
	if d.Kind == DestinationTrash {
		return "Trash"
	}
	return d.DisplayPath
}
