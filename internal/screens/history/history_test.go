package history

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/docchat/internal/router"
	"github.com/abhisek/docchat/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHistoryScreen_ListAndExpand(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	docID, err := st.DocumentRepo().Save(ctx, store.DocumentInput{Filename: "sky.txt", Content: "The sky is blue."})
	require.NoError(t, err)
	_, err = st.HistoryRepo().SaveQASession(ctx, docID, "chat-1", []store.QAPair{
		{Question: "What colour is the sky?", Answer: "Blue"},
	})
	require.NoError(t, err)

	s := New(st.DocumentRepo(), st.HistoryRepo())
	assert.Contains(t, s.View(80, 20), "Loading history")

	next, _ := s.Update(s.Init()())
	s = next.(*HistoryScreen)
	assert.Contains(t, s.View(80, 20), "sky.txt")

	next, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s = next.(*HistoryScreen)
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(80, 20), "Loading...")

	next, _ = s.Update(cmd())
	s = next.(*HistoryScreen)
	view := s.View(100, 30)
	assert.Contains(t, view, "What colour is the sky?")
	assert.Contains(t, view, "Blue")

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd, "collapsing needs no reload")
}

func TestHistoryScreen_Empty(t *testing.T) {
	st := openStore(t)
	s := New(st.DocumentRepo(), st.HistoryRepo())

	next, _ := s.Update(s.Init()())
	assert.Contains(t, next.View(80, 20), "No documents yet")
}

func TestHistoryScreen_EscPops(t *testing.T) {
	st := openStore(t)
	s := New(st.DocumentRepo(), st.HistoryRepo())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
