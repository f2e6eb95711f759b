package docscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	syncDocumentationMessageType    = "docs.sync"
	invalidateNavigationMessageType = "docs.navigation.invalidate"
)

// SyncDocumentationCommand requests one sync pass. Without Local the
// configured remote repository is used.
type SyncDocumentationCommand struct {
	// Force clears the store and the navigation cache before listing.
	Force bool `json:"force,omitempty"`
	// Local reads the tree from the filesystem instead of the remote.
	Local bool `json:"local,omitempty"`
	// Path overrides the configured local directory. It requires Local.
	Path string `json:"path,omitempty"`
	// Shallow lists only the root directory.
	Shallow bool `json:"shallow,omitempty"`
}

// Type implements command.Message.
func (SyncDocumentationCommand) Type() string { return syncDocumentationMessageType }

// Validate rejects a local path on a remote sync.
func (cmd SyncDocumentationCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.By(func(value any) error {
			path, _ := value.(string)
			if strings.TrimSpace(path) != "" && !cmd.Local {
				return validation.NewError("docs.sync.path_requires_local", "path is only valid with local")
			}
			return nil
		})),
	)
}

// InvalidateNavigationCommand drops the cached navigation tree.
type InvalidateNavigationCommand struct{}

// Type implements command.Message.
func (InvalidateNavigationCommand) Type() string { return invalidateNavigationMessageType }
