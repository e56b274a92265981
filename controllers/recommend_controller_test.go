package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplatform/models"
)

// writeScript drops a shell script into the test dir and points the
// controller at it, standing in for the Python recommender.
func writeScript(t *testing.T, env *testEnv, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recommend.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	env.Cfg.PythonBin = "/bin/sh"
	env.Cfg.RecommendScript = path
}

func TestRecommendRelaysSubprocessOutput(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "alice@example.com", "secret123")

	// Echo the request back under "received" so the test can see what
	// went over stdin.
	writeScript(t, env, `input=$(cat); printf '{"items":["Go Basics"],"received":%s}' "$input"`)

	resp := env.request(t, "POST", "/api/recommend", "",
		map[string]interface{}{"username": "alice", "query": "memory safety", "topk": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)

	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Go Basics", items[0])

	received := body["received"].(map[string]interface{})
	assert.Equal(t, "alice", received["username"])
	assert.Equal(t, "memory safety", received["query"])
	assert.EqualValues(t, 3, received["topk"])
}

func TestRecommendDerivesQueryFromRecentActions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob", "bob@example.com", "secret123")

	goCourse := env.seedCourse(t, "Go Basics", "programming")
	dbCourse := env.seedCourse(t, "Databases", "programming")
	mlCourse := env.seedCourse(t, "ML Intro", "data")
	artCourse := env.seedCourse(t, "Watercolor", "art")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed := func(courseID uint, offset time.Duration) {
		require.NoError(t, env.DB.Create(&models.UserCourseAction{
			UserID: user.ID, CourseID: courseID,
			ActionType: "action_play_video", Timestamp: base.Add(offset),
		}).Error)
	}
	// Duplicates collapse; only the 3 most recent distinct titles make it.
	seed(artCourse.ID, 0)
	seed(mlCourse.ID, 1*time.Minute)
	seed(dbCourse.ID, 2*time.Minute)
	seed(goCourse.ID, 3*time.Minute)
	seed(goCourse.ID, 4*time.Minute)

	rc := NewRecommendController(env.DB, env.Cfg)
	query, err := rc.recentInterestQuery("bob")
	require.NoError(t, err)
	assert.Equal(t, "The user has recently been interested in: Go Basics, Databases, ML Intro.", query)

	// No history, no derived query.
	env.createUser(t, "fresh", "fresh@example.com", "secret123")
	query, err = rc.recentInterestQuery("fresh")
	require.NoError(t, err)
	assert.Empty(t, query)
}

func TestRecommendFailureModes(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "carol", "carol@example.com", "secret123")

	resp := env.request(t, "POST", "/api/recommend", "", map[string]interface{}{"query": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username_required", decodeMap(t, resp)["error"])

	writeScript(t, env, `cat >/dev/null; echo "not json at all"`)
	resp = env.request(t, "POST", "/api/recommend", "",
		map[string]interface{}{"username": "carol", "query": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "recommender_bad_output", decodeMap(t, resp)["error"])

	writeScript(t, env, `cat >/dev/null; echo "boom" >&2; exit 1`)
	resp = env.request(t, "POST", "/api/recommend", "",
		map[string]interface{}{"username": "carol", "query": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "recommender_failed", body["error"])
	assert.Contains(t, body["details"], "boom")
}

func TestRecommendTimesOut(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "dave", "dave@example.com", "secret123")
	env.Cfg.RecommendTimeoutSec = 1
	writeScript(t, env, `sleep 5`)

	resp := env.request(t, "POST", "/api/recommend", "",
		map[string]interface{}{"username": "dave", "query": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "recommender_timeout", decodeMap(t, resp)["error"])
}
