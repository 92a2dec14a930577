package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/google/uuid"
)

// identityFile is the on-disk form of the anonymous identity.
type identityFile struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadIdentity returns the identity stored at path, creating and storing a
// new one when the file does not exist yet.
func LoadIdentity(path string) (docchat.UserID, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ResetIdentity(path)
	}
	if err != nil {
		return "", fmt.Errorf("read identity: %w", err)
	}

	var f identityFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("unmarshal identity: %w", err)
	}
	if _, err := uuid.Parse(f.UserID); err != nil {
		return "", fmt.Errorf("identity %q: %w", f.UserID, err)
	}
	return docchat.UserID(f.UserID), nil
}

// ResetIdentity replaces the identity at path with a freshly generated one.
// Chats created under the previous identity are no longer listed.
func ResetIdentity(path string) (docchat.UserID, error) {
	f := identityFile{UserID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal identity: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return "", fmt.Errorf("save identity: %w", err)
	}
	return docchat.UserID(f.UserID), nil
}
