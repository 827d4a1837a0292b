package prompt

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/Conceptual-Machines/muse-api/pkg/embedded"
)

// Source serves the prompt-architect instruction document. The default
// document ships embedded in the binary; an on-disk path can override it so
// the document can be iterated on without a rebuild. The active document is
// an immutable snapshot behind a single pointer: readers never see a partial
// update, and Reload swaps the snapshot only after a successful read.
type Source struct {
	path     string // optional on-disk override, empty means embedded
	snapshot atomic.Pointer[string]
}

// NewSource creates an instruction source. path may be empty to serve the
// embedded document.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Instructions returns the current instruction document, loading it on
// first use
func (s *Source) Instructions() (string, error) {
	if doc := s.snapshot.Load(); doc != nil {
		return *doc, nil
	}

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	s.snapshot.Store(&doc)
	return doc, nil
}

// Reload re-reads the instruction document and swaps it in atomically. On
// failure the previous snapshot keeps serving.
func (s *Source) Reload() error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	s.snapshot.Store(&doc)
	log.Printf("🔄 Prompt instructions reloaded (%d chars)", len(doc))
	return nil
}

func (s *Source) read() (string, error) {
	if s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return "", &music.ConfigurationError{Resource: "prompt instructions", Err: err}
		}
		doc := strings.TrimSpace(string(data))
		if doc == "" {
			return "", &music.ConfigurationError{
				Resource: "prompt instructions",
				Err:      fmt.Errorf("%s is empty", s.path),
			}
		}
		return doc, nil
	}

	doc := strings.TrimSpace(string(embedded.PromptArchitectInstructionsMd))
	if doc == "" {
		return "", &music.ConfigurationError{Resource: "prompt instructions"}
	}
	return doc, nil
}
