package editor

import (
	"encoding/json"

	"github.com/atotto/clipboard"

	"scenery/core"
)

// CopySelectedLayer serializes the selected layer onto the system clipboard.
// No-op without a selection.
func (e *Editor) CopySelectedLayer() error {
	l, ok := e.SelectedLayer()
	if !ok {
		return nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(string(data))
}

// PasteLayer reads a layer off the system clipboard and adds it as a
// duplicate: fresh id, decorated name, positional offset. Clipboard content
// that is not a layer is ignored.
func (e *Editor) PasteLayer() error {
	text, err := clipboard.ReadAll()
	if err != nil {
		return err
	}
	var l core.Layer
	if err := json.Unmarshal([]byte(text), &l); err != nil || l.Kind == "" {
		return nil
	}
	e.AddLayer(l.Duplicate())
	return nil
}
