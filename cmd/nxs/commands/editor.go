package commands

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/nexus-tools/nexus-cli/internal/constants"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
)

// EditProvider obtains an edited version of a document. Implementations
// return nexus.ErrEditCancelled when the user abandons the edit.
type EditProvider interface {
	Edit(original []byte) ([]byte, error)
}

// EditProviderFunc adapts a function to the EditProvider interface.
type EditProviderFunc func(original []byte) ([]byte, error)

// Edit implements EditProvider.
func (f EditProviderFunc) Edit(original []byte) ([]byte, error) {
	return f(original)
}

// editorProvider launches $EDITOR on a temporary file seeded with the
// original document.
type editorProvider struct{}

// NewEditorProvider returns the $EDITOR-backed edit provider.
func NewEditorProvider() EditProvider {
	return &editorProvider{}
}

func (p *editorProvider) Edit(original []byte) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmpFile, err := os.CreateTemp("", "nxs-edit-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(original); err != nil {
		_ = tmpFile.Close()

		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, constants.EditFilePerm); err != nil {
		return nil, fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	editCmd := exec.Command(editor, tmpPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr

	if err := editCmd.Run(); err != nil {
		return nil, fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	// An emptied buffer means the user backed out. Unchanged content is
	// returned as-is so the caller's no-op detection applies.
	if len(bytes.TrimSpace(edited)) == 0 {
		return nil, nexus.ErrEditCancelled
	}

	return edited, nil
}
