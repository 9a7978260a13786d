package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Frame int     `json:"frame"`
	Yaw   float64 `json:"yaw"`
	Image string  `json:"image"`
}

// WriteManifest writes manifest.json for the successful frames of a
// sequence.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Frame: r.Frame,
			Yaw:   r.Yaw,
			Image: r.File,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
