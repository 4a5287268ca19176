package export

import (
	"path/filepath"
	"strings"
)

// Filename derives the download name "<project-slug>-<label>.<ext>" inside
// dir.
func Filename(dir, project, label string, format Format) string {
	name := Slugify(project)
	if name == "" {
		name = "untitled"
	}
	if label = Slugify(label); label != "" {
		name += "-" + label
	}
	return filepath.Join(dir, name+"."+string(format))
}

// Slugify lowercases and collapses anything non-alphanumeric into single
// hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
