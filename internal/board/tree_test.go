package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

// fixture returns two workspaces with two sections each, two cards per
// section, and two subtasks per card. Ids are "w1", "w1/s1", "w1/s1/c1",
// "w1/s1/c1/t1" and so on.
func fixture() *model.BoardState {
	b := model.EmptyBoard()
	for _, w := range []string{"w1", "w2"} {
		ws := &model.Workspace{ID: w, Title: w}
		for _, s := range []string{"s1", "s2"} {
			sec := &model.Section{ID: w + "/" + s, Title: s}
			for _, c := range []string{"c1", "c2"} {
				card := &model.Card{ID: sec.ID + "/" + c, Title: c}
				for _, st := range []string{"t1", "t2"} {
					card.Subtasks = append(card.Subtasks, &model.Subtask{ID: card.ID + "/" + st, Title: st})
				}
				sec.Cards = append(sec.Cards, card)
			}
			ws.Sections = append(ws.Sections, sec)
		}
		b.Workspaces = append(b.Workspaces, ws)
	}
	return b
}

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 0, Path{}.Depth())
	assert.Equal(t, 2, Path{WorkspaceID: "w", SectionID: "s"}.Depth())
	assert.Equal(t, 4, Path{WorkspaceID: "w", SectionID: "s", CardID: "c", SubtaskID: "t"}.Depth())
	assert.Equal(t, -1, Path{WorkspaceID: "w", CardID: "c"}.Depth())
}

func TestPathParentAndKind(t *testing.T) {
	sub := Path{WorkspaceID: "w", SectionID: "s", CardID: "c", SubtaskID: "t"}
	assert.Equal(t, "subtask", sub.Kind())
	assert.Equal(t, Path{WorkspaceID: "w", SectionID: "s", CardID: "c"}, sub.Parent())
	assert.Equal(t, "card", sub.Parent().Kind())
	assert.Equal(t, Path{WorkspaceID: "w"}, sub.Parent().Parent())
	assert.Equal(t, Path{}, Path{WorkspaceID: "w"}.Parent())

	bad := Path{WorkspaceID: "w", CardID: "c"}
	assert.Equal(t, "item", bad.Kind())
	assert.Equal(t, Path{}, bad.Parent())
}

func TestApplyUnknownIDIsNoop(t *testing.T) {
	b := fixture()
	rename := Mutation{
		Workspace: renameWorkspace("x"),
		Section:   renameSection("x"),
		Card:      renameCard("x"),
		Subtask:   renameSubtask("x"),
	}

	paths := []Path{
		{WorkspaceID: "nope"},
		{WorkspaceID: "nope", SectionID: "w1/s1"},
		{WorkspaceID: "w1", SectionID: "nope"},
		{WorkspaceID: "w1", SectionID: "w2/s1"},
		{WorkspaceID: "w1", SectionID: "w1/s1", CardID: "nope"},
		{WorkspaceID: "w1", SectionID: "w1/s1", CardID: "w1/s2/c1"},
		{WorkspaceID: "w1", SectionID: "w1/s1", CardID: "w1/s1/c1", SubtaskID: "nope"},
		{WorkspaceID: "w1", CardID: "w1/s1/c1"},
	}
	for _, p := range paths {
		assert.Same(t, b, Apply(b, p, rename), "path %+v", p)
		assert.False(t, Exists(b, p), "path %+v", p)
	}
}

func TestApplyMissingTransformIsNoop(t *testing.T) {
	b := fixture()
	got := Apply(b, Path{WorkspaceID: "w1", SectionID: "w1/s1"}, Mutation{Card: renameCard("x")})
	assert.Same(t, b, got)
}

func TestApplyRoot(t *testing.T) {
	b := fixture()
	got := Apply(b, Path{}, Mutation{Root: func(s *model.BoardState) *model.BoardState {
		next := *s
		id := "w2"
		next.ActiveWorkspaceID = &id
		return &next
	}})
	require.NotSame(t, b, got)
	assert.Equal(t, "w2", got.ActiveWorkspace().ID)
	assert.Nil(t, b.ActiveWorkspaceID)
}

func TestUpdateSubtaskStructuralSharing(t *testing.T) {
	b := fixture()
	p := Path{WorkspaceID: "w1", SectionID: "w1/s2", CardID: "w1/s2/c1", SubtaskID: "w1/s2/c1/t2"}

	got := Apply(b, p, Mutation{Subtask: toggleSubtask})

	// Every node on the path is new.
	require.NotSame(t, b, got)
	assert.NotSame(t, b.Workspaces[0], got.Workspaces[0])
	assert.NotSame(t, b.Workspaces[0].Sections[1], got.Workspaces[0].Sections[1])
	assert.NotSame(t, b.Workspaces[0].Sections[1].Cards[0], got.Workspaces[0].Sections[1].Cards[0])
	assert.NotSame(t, b.Workspaces[0].Sections[1].Cards[0].Subtasks[1], got.Workspaces[0].Sections[1].Cards[0].Subtasks[1])

	// Every sibling off the path is shared.
	assert.Same(t, b.Workspaces[1], got.Workspaces[1])
	assert.Same(t, b.Workspaces[0].Sections[0], got.Workspaces[0].Sections[0])
	assert.Same(t, b.Workspaces[0].Sections[1].Cards[1], got.Workspaces[0].Sections[1].Cards[1])
	assert.Same(t, b.Workspaces[0].Sections[1].Cards[0].Subtasks[0], got.Workspaces[0].Sections[1].Cards[0].Subtasks[0])

	// The old tree is untouched.
	assert.False(t, b.Workspaces[0].Sections[1].Cards[0].Subtasks[1].Completed)
	assert.True(t, got.Workspaces[0].Sections[1].Cards[0].Subtasks[1].Completed)
	assert.Equal(t, "w1/s2/c1/t2", got.Workspaces[0].Sections[1].Cards[0].Subtasks[1].ID)
}

func TestUpdateSectionAppendCard(t *testing.T) {
	b := fixture()
	card := &model.Card{ID: "new", Title: "new"}

	got := UpdateSection(b, "w2", "w2/s1", appendCard(card))

	assert.Len(t, b.Workspaces[1].Sections[0].Cards, 2)
	require.Len(t, got.Workspaces[1].Sections[0].Cards, 3)
	assert.Same(t, card, got.Workspaces[1].Sections[0].Cards[2])
	assert.Same(t, b.Workspaces[1].Sections[0].Cards[0], got.Workspaces[1].Sections[0].Cards[0])
	assert.Same(t, b.Workspaces[0], got.Workspaces[0])
	assert.Same(t, b.Workspaces[1].Sections[1], got.Workspaces[1].Sections[1])
}

func TestUpdateWorkspaceRemoveSection(t *testing.T) {
	b := fixture()

	got := UpdateWorkspace(b, "w1", removeSection("w1/s1"))

	require.Len(t, got.Workspaces[0].Sections, 1)
	assert.Equal(t, "w1/s2", got.Workspaces[0].Sections[0].ID)
	assert.Same(t, b.Workspaces[0].Sections[1], got.Workspaces[0].Sections[0])
	assert.Len(t, b.Workspaces[0].Sections, 2)
}
