package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/synccheck"
	main "github.com/fwojciec/synccheck/cmd/synccheck"
	"github.com/fwojciec/synccheck/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stagedDiff = `diff --git a/src/App.jsx b/src/App.jsx
--- a/src/App.jsx
+++ b/src/App.jsx
@@ -1,3 +1,3 @@
-  wellSystem: '',
+  wellDepth: '',
`

const staleResponse = `{
  "summary": {"changes": ["renamed wellSystem to wellDepth"], "totalGaps": 1, "criticalGaps": 1, "triggerType": "field_renamed"},
  "documents": {
    "generateQuoteHTML": {
      "status": "NEEDS_UPDATE",
      "reason": "still reads wellSystem",
      "gaps": ["wellSystem"],
      "fixes": [{"description": "rename", "searchFor": "quote.wellSystem", "replaceWith": "quote.wellDepth"}]
    }
  }
}`

const completeResponse = `{
  "summary": {"changes": [], "totalGaps": 0, "criticalGaps": 0, "triggerType": "unknown"},
  "documents": {"generateQuoteHTML": {"status": "COMPLETE", "reason": "ok", "gaps": [], "fixes": []}}
}`

// newApp returns an App whose collaborators all succeed; tests override
// what they need.
func newApp(out *bytes.Buffer) *main.App {
	return &main.App{
		Root:   "/repo",
		Config: synccheck.DefaultConfig(),
		Git: &mock.GitRunner{
			DiffStagedFn: func(ctx context.Context, repoPath string) (string, error) {
				return stagedDiff, nil
			},
		},
		Parser: &mock.DiffParser{
			ParseFn: func(text string) *synccheck.ChangeSet {
				return &synccheck.ChangeSet{Text: text, Files: []string{"src/App.jsx"}}
			},
		},
		Assembler: &mock.ContextAssembler{
			AssembleFn: func(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error) {
				return &synccheck.ContextBundle{Diff: changes.Text, ChangedFiles: changes.Files, EstimatedTokens: 1234}, nil
			},
		},
		Auditor: &mock.Auditor{
			AuditFn: func(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) {
				return staleResponse, nil
			},
		},
		Reporter: &mock.Reporter{
			RenderFn: func(analysis *synccheck.Analysis, changes *synccheck.ChangeSet) {},
		},
		Applicator: &mock.Applicator{
			PromptAutoApplyFn: func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
				return synccheck.ApplyResult{Applied: len(fixes)}, nil
			},
		},
		Marks: mock.Marker{},
		Out:   out,
	}
}

func TestApp_Run_FullPipeline(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := newApp(&out)

	var rendered *synccheck.Analysis
	app.Reporter = &mock.Reporter{
		RenderFn: func(analysis *synccheck.Analysis, changes *synccheck.ChangeSet) {
			rendered = analysis
			assert.Equal(t, []string{"src/App.jsx"}, changes.Files)
		},
	}
	var gotFixes []synccheck.Fix
	var gotRoot string
	var gotPolicy synccheck.AutoApplyPolicy
	app.Applicator = &mock.Applicator{
		PromptAutoApplyFn: func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
			gotFixes, gotRoot, gotPolicy = fixes, root, policy
			return synccheck.ApplyResult{Applied: 1}, nil
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, rendered)
	assert.Equal(t, synccheck.TriggerFieldRenamed, rendered.Summary.TriggerType)
	require.Len(t, gotFixes, 1)
	assert.Equal(t, "generateQuoteHTML", gotFixes[0].Document)
	assert.Equal(t, "src/utils/documentGenerator.js", gotFixes[0].File)
	assert.Equal(t, "/repo", gotRoot)
	assert.Equal(t, synccheck.AutoApplyPrompt, gotPolicy)
	assert.Contains(t, out.String(), "Checking 1 changed file against src/utils/documentGenerator.js")
	assert.Contains(t, out.String(), "~1234 tokens")
}

func TestApp_Run_EmptyDiffSkipsAudit(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := newApp(&out)
	empty := func(ctx context.Context, repoPath string) (string, error) { return "", nil }
	app.Git = &mock.GitRunner{DiffStagedFn: empty, DiffUnstagedFn: empty, ShowLastCommitFn: empty}
	app.Parser = &mock.DiffParser{
		ParseFn: func(text string) *synccheck.ChangeSet { return &synccheck.ChangeSet{Text: text} },
	}
	app.Assembler = &mock.ContextAssembler{
		AssembleFn: func(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error) {
			t.Fatal("assembler must not run on an empty diff")
			return nil, nil
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No changes to check.")
}

func TestApp_Run_UpToDateSkipsApplicator(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := newApp(&out)
	app.Auditor = &mock.Auditor{
		AuditFn: func(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) {
			return completeResponse, nil
		},
	}
	app.Applicator = &mock.Applicator{
		PromptAutoApplyFn: func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
			t.Fatal("applicator must not run when documents are up to date")
			return synccheck.ApplyResult{}, nil
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "no fixes needed")
}

func TestApp_Run_Errors(t *testing.T) {
	t.Parallel()

	t.Run("diff failure", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		app := newApp(&out)
		diffErr := &synccheck.DiffUnavailableError{Op: "diff", Err: errors.New("boom")}
		app.Git = &mock.GitRunner{
			DiffStagedFn: func(ctx context.Context, repoPath string) (string, error) { return "", diffErr },
		}

		err := app.Run(context.Background())

		require.ErrorIs(t, err, diffErr)
	})

	t.Run("assembly failure", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		app := newApp(&out)
		app.Assembler = &mock.ContextAssembler{
			AssembleFn: func(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error) {
				return nil, &synccheck.ContextAssemblyError{Path: "src/App.jsx", Err: os.ErrNotExist}
			},
		}

		err := app.Run(context.Background())

		var assembly *synccheck.ContextAssemblyError
		require.ErrorAs(t, err, &assembly)
	})

	t.Run("model failure", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		app := newApp(&out)
		modelErr := synccheck.NewModelCallError(errors.New("quota exceeded"))
		app.Auditor = &mock.Auditor{
			AuditFn: func(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) { return "", modelErr },
		}
		rendered := false
		app.Reporter = &mock.Reporter{
			RenderFn: func(*synccheck.Analysis, *synccheck.ChangeSet) { rendered = true },
		}

		err := app.Run(context.Background())

		require.ErrorIs(t, err, modelErr)
		assert.False(t, rendered)
	})

	t.Run("unparseable response", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		app := newApp(&out)
		app.Auditor = &mock.Auditor{
			AuditFn: func(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) {
				return "I could not analyze this.", nil
			},
		}

		err := app.Run(context.Background())

		var format *synccheck.ResponseFormatError
		require.ErrorAs(t, err, &format)
		assert.Equal(t, "I could not analyze this.", format.Excerpt)
	})

	t.Run("apply failure", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		app := newApp(&out)
		writeErr := errors.New("disk full")
		app.Applicator = &mock.Applicator{
			PromptAutoApplyFn: func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
				return synccheck.ApplyResult{Failed: 1}, writeErr
			},
		}

		err := app.Run(context.Background())

		require.ErrorIs(t, err, writeErr)
	})
}

func TestApp_Run_PromptCancelledIsNotAnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := newApp(&out)
	app.Applicator = &mock.Applicator{
		PromptAutoApplyFn: func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
			return synccheck.ApplyResult{Skipped: len(fixes)}, synccheck.ErrPromptCancelled
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Prompt cancelled.")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults without a config file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()

		cfg, path, err := main.LoadConfig(root, "")

		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, synccheck.DefaultConfig(), cfg)
	})

	t.Run("discovers json with comments", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeConfig(t, root, ".sync-check.json", `{
  // run against main
  "diffTarget": "main",
  "autoApply": "never",
}`)

		cfg, path, err := main.LoadConfig(root, "")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ".sync-check.json"), path)
		assert.Equal(t, "main", cfg.DiffTarget)
		assert.Equal(t, synccheck.AutoApplyNever, cfg.AutoApply)
		assert.Equal(t, synccheck.DefaultConfig().OutputDocumentFile, cfg.OutputDocumentFile)
	})

	t.Run("discovers yaml", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeConfig(t, root, ".sync-check.yml", "autoApply: always\nignoreFields: [id]\n")

		cfg, _, err := main.LoadConfig(root, "")

		require.NoError(t, err)
		assert.Equal(t, synccheck.AutoApplyAlways, cfg.AutoApply)
		assert.Equal(t, []string{"id"}, cfg.IgnoreFields)
	})

	t.Run("json wins over yaml", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeConfig(t, root, ".sync-check.json", `{"diffTarget": "from-json"}`)
		writeConfig(t, root, ".sync-check.yaml", "diffTarget: from-yaml\n")

		cfg, _, err := main.LoadConfig(root, "")

		require.NoError(t, err)
		assert.Equal(t, "from-json", cfg.DiffTarget)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()

		_, _, err := main.LoadConfig(root, filepath.Join(root, "missing.json"))

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := writeConfig(t, root, "sync.toml", "autoApply = 'never'\n")

		_, _, err := main.LoadConfig(root, path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeConfig(t, root, ".sync-check.json", `{"autoApply": `)

		_, _, err := main.LoadConfig(root, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), ".sync-check.json")
	})
}

func TestExecute(t *testing.T) {
	t.Parallel()

	noEnv := func(string) string { return "" }

	t.Run("version", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer

		code := main.Execute([]string{"version"}, strings.NewReader(""), &stdout, &stderr, noEnv)

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "synccheck dev")
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer

		code := main.Execute([]string{"--root", t.TempDir()}, strings.NewReader(""), &stdout, &stderr, noEnv)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "GEMINI_API_KEY environment variable required")
		assert.Contains(t, stderr.String(), "hint: export GEMINI_API_KEY")
	})

	t.Run("invalid auto-apply override", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer

		code := main.Execute([]string{"--root", t.TempDir(), "--auto-apply", "sometimes"},
			strings.NewReader(""), &stdout, &stderr, noEnv)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), `invalid autoApply "sometimes"`)
	})

	t.Run("unexpected argument", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer

		code := main.Execute([]string{"extra"}, strings.NewReader(""), &stdout, &stderr, noEnv)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
