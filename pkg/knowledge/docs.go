package knowledge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one source text loaded from the external store.
type Document struct {
	Name    string
	RawText string
}

// DocumentStore enumerates named text documents. It is re-read on every
// rebuild, so edits on disk show up after the next rebuild trigger.
type DocumentStore interface {
	Load() ([]Document, error)
}

// FSDocumentStore reads .txt and .md files from a directory.
type FSDocumentStore struct {
	Dir string
}

func NewFSDocumentStore(dir string) *FSDocumentStore {
	return &FSDocumentStore{Dir: dir}
}

func (s *FSDocumentStore) Load() ([]Document, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}
		docs = append(docs, Document{Name: e.Name(), RawText: text})
	}

	// Deterministic ordering keeps chunk ids stable between rebuilds.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}
