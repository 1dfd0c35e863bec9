package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/session"
	"github.com/poiesic/treesearch/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testCatalog = `# components
Rendering/Mesh Renderer	Draws a mesh
Rendering/Skinned Mesh
Physics/Mesh Collider
Physics/Rigidbody
---Physics
Physics/Joint
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.txt")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	return path
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Warn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", level})
				assert.NoError(t, err)
			})
		}
	})

	t.Run("invalid log levels", func(t *testing.T) {
		for _, level := range []string{"invalid", "trace", "fatal", ""} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", level})
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
			})
		}
	})

	t.Run("config file level applies without flag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o644))

		err := newApp().Run([]string{"picker", "--config", path, "search", "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid log level "loud"`)
	})
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	for _, name := range []string{"search", "serve", "browse"} {
		t.Run(name+" requires catalog", func(t *testing.T) {
			err := app.Run([]string{"picker", name})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "catalog")
		})
	}

	t.Run("log-level defaults to info", func(t *testing.T) {
		var levelFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "log-level" {
				levelFlag = f
				break
			}
		}
		require.NotNil(t, levelFlag)
		assert.Equal(t, "info", levelFlag.Value)
		assert.Equal(t, []string{"l"}, levelFlag.Aliases)
	})
}

func TestSearchCommand(t *testing.T) {
	catalogPath := writeCatalog(t)

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		err := app.Run(append([]string{"picker", "--log-level", "error", "search", "--catalog", catalogPath}, args...))
		require.NoError(t, err)
		return out.String()
	}

	t.Run("ranks by match position", func(t *testing.T) {
		out := run(t, "mesh")

		collider := strings.Index(out, "Physics/Mesh Collider")
		renderer := strings.Index(out, "Rendering/Mesh Renderer")
		skinned := strings.Index(out, "Rendering/Skinned Mesh")
		require.NotEqual(t, -1, collider, out)
		require.NotEqual(t, -1, renderer, out)
		require.NotEqual(t, -1, skinned, out)
		assert.Less(t, renderer, skinned, "prefix matches rank first")
		assert.Contains(t, out, "3 results (completed")
	})

	t.Run("fuzzy ignores spaces", func(t *testing.T) {
		out := run(t, "rigid", "body")
		assert.Contains(t, out, "Physics/Rigidbody")
		assert.Contains(t, out, "1 results")
	})

	t.Run("limit stops early", func(t *testing.T) {
		out := run(t, "--limit", "1", "mesh")
		assert.Contains(t, out, "1 results (limit_reached")
		assert.Contains(t, out, "narrow your query")
	})

	t.Run("exact mode keeps spaces", func(t *testing.T) {
		out := run(t, "--exact", "rigid body")
		assert.Contains(t, out, "0 results")
	})

	t.Run("blank query fails", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"picker", "search", "--catalog", catalogPath, "  "})
		require.Error(t, err)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"picker", "search", "--catalog", filepath.Join(t.TempDir(), "nope"), "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening catalog")
	})
}

func newTestBrowser(t *testing.T) browseModel {
	t.Helper()

	physics := tree.NewItem(tree.Content{Text: "Physics"}, 0)
	require.NoError(t, physics.Add(tree.NewLeaf("Rigidbody")))
	require.NoError(t, physics.Add(tree.NewLeaf("Joint")))
	root := tree.NewItem(tree.Content{Text: "Catalog"}, 0)
	require.NoError(t, root.Add(physics))
	require.NoError(t, root.Add(tree.NewSeparator()))
	require.NoError(t, root.Add(tree.NewLeaf("Camera")))

	sess, err := session.New(root, match.NewConfig())
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	return newBrowseModel(sess)
}

func press(t *testing.T, m browseModel, key tea.KeyMsg) browseModel {
	t.Helper()
	next, _ := m.Update(key)
	bm, ok := next.(browseModel)
	require.True(t, ok)
	return bm
}

func TestBrowseModel(t *testing.T) {
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	down := tea.KeyMsg{Type: tea.KeyDown}

	t.Run("enter opens a category and esc goes back", func(t *testing.T) {
		m := newTestBrowser(t)
		m = press(t, m, enter)
		require.Len(t, m.stack, 2)
		assert.Equal(t, "Catalog / Physics", m.title())
		assert.Equal(t, "Rigidbody", m.rows()[0].Text())

		m = press(t, m, esc)
		assert.Len(t, m.stack, 1)
	})

	t.Run("cursor skips separators", func(t *testing.T) {
		m := newTestBrowser(t)
		m = press(t, m, down)
		assert.Equal(t, 2, m.cursor)
		m = press(t, m, down)
		assert.Equal(t, 2, m.cursor, "cursor stays on the last row")
	})

	t.Run("typing searches and enter chooses", func(t *testing.T) {
		m := newTestBrowser(t)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cam")})
		require.Equal(t, "cam", m.session.Query())
		require.NoError(t, m.session.Wait(t.Context()))

		rows := m.rows()
		require.Len(t, rows, 1)
		assert.Equal(t, "Camera", rows[0].Text())
		assert.Contains(t, m.View(), "1 results")

		next, cmd := m.Update(enter)
		assert.NotNil(t, cmd)
		assert.Equal(t, "Camera", next.(browseModel).chosen.Text())
	})

	t.Run("esc clears the query before leaving", func(t *testing.T) {
		m := newTestBrowser(t)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("joint")})
		require.NoError(t, m.session.Wait(t.Context()))
		require.True(t, m.session.Active())

		m = press(t, m, esc)
		assert.False(t, m.session.Active())
		assert.Empty(t, m.input.Value())
		assert.Equal(t, "Catalog", m.title())
	})
}
