package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/server"
	"github.com/abhisek/mathcraft/internal/store"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	resetFlags()
	t.Cleanup(resetFlags)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags clears flag values, which outlive a single Execute on the
// shared root command.
func resetFlags() {
	rootCmd.PersistentFlags().Set("user", "")
	resetCmd.Flags().Set("all", "false")
	resetCmd.Flags().Set("yes", "false")
}

func seededServer(t *testing.T) (*store.Store, *httptest.Server) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	opts := server.OptionsFromStore(st)
	opts.Logger = log.New(io.Discard, "", 0)
	ts := httptest.NewServer(server.New(opts))
	t.Cleanup(ts.Close)

	c := scoring.NewClient(scoring.Config{BaseURL: ts.URL, Timeout: 5 * time.Second})
	ctx := context.Background()
	sid, err := c.StartSession(ctx)
	require.NoError(t, err)
	for _, answer := range []int{56, 55} {
		_, err := c.SubmitAnswer(ctx, scoring.Submission{
			QuestionID: strconv.Itoa(store.QuestionID(7, 8)), Answer: answer, ResponseTime: 2, SessionID: sid,
		})
		require.NoError(t, err)
	}
	require.NoError(t, c.EndSession(ctx, sid))
	return st, ts
}

func TestStatsCommand(t *testing.T) {
	_, ts := seededServer(t)

	out, err := execute(t, "", "stats", "--server", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Learner:             player")
	assert.Contains(t, out, "Questions practiced: 1 of 81")
	assert.Contains(t, out, "2 (1 correct, 1 wrong)")
	assert.Contains(t, out, "Accuracy:            50.0%")
	assert.Contains(t, out, "Recent sessions:")
}

func TestStatsCommand_OtherLearner(t *testing.T) {
	_, ts := seededServer(t)

	out, err := execute(t, "", "stats", "--server", ts.URL, "--user", "alex")
	require.NoError(t, err)
	assert.Contains(t, out, "Learner:             alex")
	assert.Contains(t, out, "Questions practiced: 0 of 81")
	assert.NotContains(t, out, "Recent sessions:")

	_, err = execute(t, "", "stats", "--server", ts.URL, "--user", "bad name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid learner name")
}

func TestMistakesCommand(t *testing.T) {
	_, ts := seededServer(t)

	out, err := execute(t, "", "mistakes", "--server", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "7 × 8 = 56")
}

func TestResetCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reset.db")
	ctx := context.Background()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	learners := map[string]int64{}
	for _, name := range []string{scoring.DefaultUser, "steve"} {
		u, err := st.UserRepo().Ensure(ctx, name, time.Now())
		require.NoError(t, err)
		learners[name] = u.ID
		_, err = st.SessionRepo().Create(ctx, u.ID, time.Now())
		require.NoError(t, err)
	}
	require.NoError(t, st.Close())

	sessionsOf := func(name string) int {
		t.Helper()
		st, err := store.Open(dbPath)
		require.NoError(t, err)
		defer st.Close()
		recent, err := st.SessionRepo().Recent(ctx, learners[name], 0)
		require.NoError(t, err)
		return len(recent)
	}

	out, err := execute(t, "n\n", "reset", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, "y\n", "reset", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `learner "player"`)
	assert.Contains(t, out, "Learner data reset for player.")
	assert.Equal(t, 0, sessionsOf(scoring.DefaultUser))
	assert.Equal(t, 1, sessionsOf("steve"))

	out, err = execute(t, "", "reset", "--db", dbPath, "--user", "nobody", "-y")
	require.NoError(t, err)
	assert.Contains(t, out, `No data for learner "nobody".`)
	assert.Equal(t, 1, sessionsOf("steve"))

	out, err = execute(t, "y\n", "reset", "--db", dbPath, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "all learners")
	assert.Contains(t, out, "Learner data reset.")
	assert.Equal(t, 0, sessionsOf("steve"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mathcraft")
	assert.Contains(t, out, scoring.APIVersion)
}
