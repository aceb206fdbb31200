package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nhle/taskboard/internal/model"
)

// SnapshotVersion is the version written by Encode. Snapshots without a
// version field predate versioning and are read as version 0.
const SnapshotVersion = 1

// ErrUnsupportedVersion is returned for snapshots written by a newer build.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

const snapshotSchemaURL = "https://taskboard.local/snapshot.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(snapshotSchemaURL, strings.NewReader(snapshotSchemaJSON)); err != nil {
		return nil, fmt.Errorf("adding snapshot schema: %w", err)
	}
	return compiler.Compile(snapshotSchemaURL)
})

// ValidationError describes one problem found in a snapshot.
type ValidationError struct {
	Path    string // e.g. "workspaces[0].sections[2].id"; empty for the document
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// snapshot is the persisted envelope around a board.
type snapshot struct {
	Version           *int               `json:"version,omitempty"`
	Workspaces        []*model.Workspace `json:"workspaces"`
	ActiveWorkspaceID *string            `json:"activeWorkspaceId"`
}

// Encode serializes the full board as a versioned snapshot. Missing child
// sequences are written as empty arrays.
func Encode(b *model.BoardState) ([]byte, error) {
	if b == nil {
		b = model.EmptyBoard()
	}
	b = normalize(b)
	v := SnapshotVersion
	data, err := json.Marshal(snapshot{
		Version:           &v,
		Workspaces:        b.Workspaces,
		ActiveWorkspaceID: b.ActiveWorkspaceID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot. It returns the board and the
// snapshot's version. Every problem found is returned as a *ValidationError,
// joined into one error.
func Decode(data []byte) (*model.BoardState, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, 0, &ValidationError{Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, 0, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, 0, schemaErrors(err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, &ValidationError{Message: fmt.Sprintf("decoding snapshot: %v", err)}
	}

	version := 0
	if snap.Version != nil {
		version = *snap.Version
	}
	if version > SnapshotVersion {
		return nil, version, fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, version, SnapshotVersion)
	}

	b := normalize(&model.BoardState{
		Workspaces:        snap.Workspaces,
		ActiveWorkspaceID: snap.ActiveWorkspaceID,
	})
	if errs := checkBoard(b); len(errs) > 0 {
		return nil, version, errors.Join(errs...)
	}
	return b, version, nil
}

// checkBoard enforces what the schema cannot express: ids are unique across
// the whole board, workspace titles are not blank, and the active workspace
// exists.
func checkBoard(b *model.BoardState) []error {
	var errs []error
	seen := make(map[string]string)
	claim := func(id, path string) {
		if first, dup := seen[id]; dup {
			errs = append(errs, &ValidationError{
				Path:    path + ".id",
				Message: fmt.Sprintf("duplicate id %q (first used at %s)", id, first),
			})
			return
		}
		seen[id] = path
	}

	for wi, ws := range b.Workspaces {
		wp := fmt.Sprintf("workspaces[%d]", wi)
		claim(ws.ID, wp)
		if strings.TrimSpace(ws.Title) == "" {
			errs = append(errs, &ValidationError{Path: wp + ".title", Message: "title is blank"})
		}
		for si, sec := range ws.Sections {
			sp := fmt.Sprintf("%s.sections[%d]", wp, si)
			claim(sec.ID, sp)
			for ci, card := range sec.Cards {
				cp := fmt.Sprintf("%s.cards[%d]", sp, ci)
				claim(card.ID, cp)
				for ti, st := range card.Subtasks {
					claim(st.ID, fmt.Sprintf("%s.subtasks[%d]", cp, ti))
				}
			}
		}
	}

	if id := b.ActiveWorkspaceID; id != nil && b.Workspace(*id) == nil {
		errs = append(errs, &ValidationError{
			Path:    "activeWorkspaceId",
			Message: fmt.Sprintf("no workspace with id %q", *id),
		})
	}
	return errs
}

// schemaErrors flattens a jsonschema error tree into its leaf causes.
func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	if len(errs) == 0 {
		return err
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/workspaces/0/title" into "workspaces[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var sb strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&sb, "[%d]", idx)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// normalize returns b with every nil child sequence replaced by an empty
// one. Nodes that already have all their sequences are reused.
func normalize(b *model.BoardState) *model.BoardState {
	out := &model.BoardState{
		Workspaces:        make([]*model.Workspace, len(b.Workspaces)),
		ActiveWorkspaceID: b.ActiveWorkspaceID,
	}
	for i, ws := range b.Workspaces {
		out.Workspaces[i] = normalizeWorkspace(ws)
	}
	return out
}

func normalizeWorkspace(ws *model.Workspace) *model.Workspace {
	next := *ws
	next.Sections = make([]*model.Section, len(ws.Sections))
	changed := ws.Sections == nil
	for i, sec := range ws.Sections {
		next.Sections[i] = normalizeSection(sec)
		changed = changed || next.Sections[i] != sec
	}
	if !changed {
		return ws
	}
	return &next
}

func normalizeSection(sec *model.Section) *model.Section {
	next := *sec
	next.Cards = make([]*model.Card, len(sec.Cards))
	changed := sec.Cards == nil
	for i, card := range sec.Cards {
		next.Cards[i] = card
		if card.Subtasks == nil {
			c := *card
			c.Subtasks = []*model.Subtask{}
			next.Cards[i] = &c
			changed = true
		}
	}
	if !changed {
		return sec
	}
	return &next
}
