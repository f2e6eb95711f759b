package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const documentNamespace = "go-docsync:document:"

// DocumentUUID is the stable identifier of the document stored at docPath.
// Surrounding slashes and blanks are ignored, so a forced rebuild reproduces
// the same IDs. The empty path yields uuid.Nil.
func DocumentUUID(docPath string) uuid.UUID {
	key := strings.Trim(strings.TrimSpace(docPath), "/")
	if key == "" {
		return uuid.Nil
	}
	key = documentNamespace + key

	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
	}
	return id
}

// RunID returns a fresh identifier for one sync pass.
func RunID() string {
	return uuid.NewString()
}
