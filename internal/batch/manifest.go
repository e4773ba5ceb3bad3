package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry represents one request in the output manifest.
type ManifestEntry struct {
	Index      int    `json:"index"`
	Name       string `json:"name,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Order      string `json:"order,omitempty"`
	GimbalLock bool   `json:"gimbal_lock"`
	MRPShadow  bool   `json:"mrp_shadow"`
	Degenerate bool   `json:"degenerate"`
	Image      string `json:"image,omitempty"`
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total      int `json:"total"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	GimbalLock int `json:"gimbal_lock"`
	Degenerate int `json:"degenerate"`
}

type manifest struct {
	Summary Summary         `json:"summary"`
	Entries []ManifestEntry `json:"entries"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if !r.Success {
			s.Failed++
			continue
		}
		s.Succeeded++
		if r.Degenerate {
			s.Degenerate++
		}
		if r.Result != nil && r.Result.Euler.GimbalLock != nil {
			s.GimbalLock++
		}
	}
	return s
}

// WriteManifest writes the summary and one entry per result to path.
func WriteManifest(path string, results []Result) error {
	m := manifest{Summary: Summarize(results), Entries: make([]ManifestEntry, len(results))}
	for i, r := range results {
		e := ManifestEntry{
			Index:      r.Index,
			Name:       r.Name,
			Success:    r.Success,
			Error:      r.Error,
			Degenerate: r.Degenerate,
			Image:      r.Image,
		}
		if r.Result != nil {
			e.Order = r.Result.Euler.Order
			e.GimbalLock = r.Result.Euler.GimbalLock != nil
			e.MRPShadow = r.Result.MRP.IsShadow
		}
		m.Entries[i] = e
	}
	return writeJSON(path, m)
}

// WriteResults writes the full conversion results to path.
func WriteResults(path string, results []Result) error {
	return writeJSON(path, results)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
