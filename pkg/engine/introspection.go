package engine

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	BinaryPath  string `json:"binary_path"`
	BinDir      string `json:"bin_dir"`
	LayerDir    string `json:"layer_dir,omitempty"`
	ArchiveDir  string `json:"archive_dir"`
	Extractions int    `json:"extractions"`
	Timeout     string `json:"timeout"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ClientState{
		BinaryPath:  c.binaryPath,
		BinDir:      c.binDir,
		LayerDir:    c.layerDir,
		ArchiveDir:  c.archiveDir,
		Extractions: c.extractions,
		Timeout:     c.timeout.String(),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "engine-client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
