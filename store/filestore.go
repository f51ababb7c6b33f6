package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/projection"
)

// Document is the on-disk JSON layout of one client's data.
type Document struct {
	Client     Client             `json:"client"`
	Catalog    []chart.Bucket     `json:"catalog,omitempty"`
	Targets    []AllocationTarget `json:"targets,omitempty"`
	Lines      []LineRecord       `json:"lines,omitempty"`
	Activity   []ActivityRow      `json:"activity,omitempty"`
	Balances   []BalanceRow       `json:"balances,omitempty"`
	AccountMap map[string]string  `json:"accountMap,omitempty"`
}

// FileStore is a Store backed by a single JSON document per client.
// Malformed records are skipped with a warning instead of failing the
// whole load.
type FileStore struct {
	path     string
	doc      *Document
	warnings []string
}

// Open reads and validates a client document from disk.
func Open(path string) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse client file %s: %w", path, err)
	}

	fs := &FileStore{path: path, doc: &doc}
	fs.validate()
	return fs, nil
}

// Warnings returns the records skipped during load.
func (fs *FileStore) Warnings() []string {
	return fs.warnings
}

// validate drops malformed records up front so reads never see them.
func (fs *FileStore) validate() {
	kept := fs.doc.Activity[:0]
	for _, row := range fs.doc.Activity {
		if row.Period == "" || row.Slug == "" {
			fs.warnings = append(fs.warnings, "skipped activity row with missing period or bucket")
			continue
		}
		kept = append(kept, row)
	}
	fs.doc.Activity = kept

	balances := fs.doc.Balances[:0]
	for _, row := range fs.doc.Balances {
		if row.Period == "" || row.Slug == "" {
			fs.warnings = append(fs.warnings, "skipped balance row with missing period or bucket")
			continue
		}
		balances = append(balances, row)
	}
	fs.doc.Balances = balances

	targets := fs.doc.Targets[:0]
	for _, t := range fs.doc.Targets {
		if t.Slug == "" {
			fs.warnings = append(fs.warnings, "skipped allocation target with missing bucket")
			continue
		}
		targets = append(targets, t)
	}
	fs.doc.Targets = targets
}

// Client returns the document's client record.
func (fs *FileStore) Client() Client {
	return fs.doc.Client
}

// Catalog implements Store. The persisted catalog is merged over the core
// layout so renamed core buckets win and missing ones are filled in.
func (fs *FileStore) Catalog(ctx context.Context) ([]chart.Bucket, error) {
	return chart.Merge(fs.doc.Catalog, chart.CoreLayout()), nil
}

// Targets implements Store.
func (fs *FileStore) Targets(ctx context.Context) ([]AllocationTarget, error) {
	return fs.doc.Targets, nil
}

// Lines implements Store. Records that fail to decode are skipped with a
// warning.
func (fs *FileStore) Lines(ctx context.Context) ([]*projection.Line, error) {
	var lines []*projection.Line
	for _, record := range fs.doc.Lines {
		line, err := record.Decode()
		if err != nil {
			fs.warnings = append(fs.warnings, fmt.Sprintf("skipped projection line: %v", err))
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Activity implements Store.
func (fs *FileStore) Activity(ctx context.Context) ([]ActivityRow, error) {
	return fs.doc.Activity, nil
}

// EndingBalances implements Store.
func (fs *FileStore) EndingBalances(ctx context.Context) ([]BalanceRow, error) {
	return fs.doc.Balances, nil
}

// AccountMap implements Store.
func (fs *FileStore) AccountMap(ctx context.Context) (map[string]string, error) {
	if fs.doc.AccountMap == nil {
		return map[string]string{}, nil
	}
	return fs.doc.AccountMap, nil
}

// Save writes the document back to disk, assigning identifiers to records
// that do not have one yet.
func (fs *FileStore) Save() error {
	if fs.doc.Client.ID == uuid.Nil {
		fs.doc.Client.ID = uuid.New()
	}
	for i := range fs.doc.Lines {
		if fs.doc.Lines[i].ID == uuid.Nil {
			fs.doc.Lines[i].ID = uuid.New()
		}
	}

	raw, err := json.MarshalIndent(fs.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode client file: %w", err)
	}
	if err := os.WriteFile(fs.path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write client file: %w", err)
	}
	return nil
}
