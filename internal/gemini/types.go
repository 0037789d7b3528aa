package gemini

import (
	"path"
	"sort"
	"strings"
)

// ModelInfo describes one entry from the model-listing endpoint.
type ModelInfo struct {
	// Name is the fully qualified resource name, e.g. "models/gemini-2.0-flash".
	Name                       string   `json:"name"`
	Version                    string   `json:"version"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// ShortName returns the final path segment of the resource name.
func (m ModelInfo) ShortName() string {
	return path.Base(m.Name)
}

func (m ModelInfo) supportsGeneration() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// SelectModel picks the model to chat with: candidates must advertise the
// generateContent capability and belong to the gemini family; the highest
// version wins, compared as plain strings with ties keeping listing order.
func SelectModel(candidates []ModelInfo) (ModelInfo, bool) {
	var eligible []ModelInfo
	for _, m := range candidates {
		if strings.Contains(m.Name, "gemini") && m.supportsGeneration() {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return ModelInfo{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Version > eligible[j].Version
	})
	return eligible[0], true
}

type listModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// reply extracts candidates[0].content.parts[0].text, if present.
func (r generateContentResponse) reply() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}
