package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	domanswer "github.com/kailas-cloud/transcriptqa/internal/domain/answer"
	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
)

type resultJSON struct {
	Key      string            `json:"key"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Source   string            `json:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type answerJSON struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []resultJSON `json:"sources"`
}

func toResultJSON(results []result.Result) []resultJSON {
	out := make([]resultJSON, len(results))
	for i := range results {
		chunk := results[i].Chunk()
		out[i] = resultJSON{
			Key:      results[i].Key(),
			Score:    results[i].Score(),
			Content:  chunk.Text(),
			Source:   chunk.Source(),
			Metadata: chunk.Metadata(),
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResultsJSON(w io.Writer, results []result.Result) error {
	return writeJSON(w, toResultJSON(results))
}

func writeResultsText(w io.Writer, results []result.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for i := range results {
		chunk := results[i].Chunk()
		fmt.Fprintf(w, "%d. [%.4f] %s\n", i+1, results[i].Score(), chunk.Source())
		fmt.Fprintln(w, indent(chunk.Text()))
	}
}

func writeAnswerJSON(w io.Writer, ans domanswer.Answer) error {
	return writeJSON(w, answerJSON{
		Question: ans.Question(),
		Answer:   ans.Text(),
		Sources:  toResultJSON(ans.Sources()),
	})
}

func writeAnswerText(w io.Writer, ans domanswer.Answer) {
	fmt.Fprintln(w, ans.Text())

	sources := ans.Sources()
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i := range sources {
		chunk := sources[i].Chunk()
		fmt.Fprintf(w, "  - %s (score %.4f)\n", chunk.Source(), sources[i].Score())
	}
}

func indent(s string) string {
	return "   " + strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n   ")
}
