package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplatform/models"
)

func (e *testEnv) chapterPositions(t *testing.T, courseID uint) map[string]int {
	t.Helper()
	var chapters []models.CourseChapter
	require.NoError(t, e.DB.Where("course_id = ?", courseID).Find(&chapters).Error)
	out := make(map[string]int, len(chapters))
	for _, ch := range chapters {
		out[ch.Title] = ch.Position
	}
	return out
}

func TestCreateChapterAppendsAtEnd(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com", "secret123")
	token := env.tokenFor(t, user)
	course := env.seedCourse(t, "Go Basics", "programming")
	env.seedChapter(t, course.ID, "one", 1, 100)

	resp := env.request(t, "POST", fmt.Sprintf("/api/courses/%d/chapters", course.ID), token,
		map[string]interface{}{"title": "two", "video_url": "/videos/two.mp4", "duration_sec": 300})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.EqualValues(t, 2, body["position"])
	assert.EqualValues(t, 300, body["duration_sec"])

	resp = env.request(t, "POST", fmt.Sprintf("/api/courses/%d/chapters", course.ID), token,
		map[string]interface{}{"title": "no video"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "POST", "/api/courses/99999/chapters", token,
		map[string]interface{}{"title": "x", "video_url": "/videos/x.mp4"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListChaptersOrderedByPosition(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "Go Basics", "programming")
	env.seedChapter(t, course.ID, "third", 3, 100)
	env.seedChapter(t, course.ID, "first", 1, 100)
	env.seedChapter(t, course.ID, "second", 2, 100)

	resp := env.request(t, "GET", fmt.Sprintf("/api/courses/%d/chapters", course.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chapters := decodeMap(t, resp)["chapters"].([]interface{})
	require.Len(t, chapters, 3)
	assert.Equal(t, "first", chapters[0].(map[string]interface{})["title"])
	assert.Equal(t, "second", chapters[1].(map[string]interface{})["title"])
	assert.Equal(t, "third", chapters[2].(map[string]interface{})["title"])
}

func TestDeleteChapterClosesGap(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob", "bob@example.com", "secret123")
	token := env.tokenFor(t, user)
	course := env.seedCourse(t, "Go Basics", "programming")
	env.seedChapter(t, course.ID, "a", 1, 100)
	b := env.seedChapter(t, course.ID, "b", 2, 100)
	env.seedChapter(t, course.ID, "c", 3, 100)

	resp := env.request(t, "DELETE", fmt.Sprintf("/api/chapters/%d", b.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, map[string]int{"a": 1, "c": 2}, env.chapterPositions(t, course.ID))
}

func TestReorderChaptersScopedToCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "carol", "carol@example.com", "secret123")
	token := env.tokenFor(t, user)
	course := env.seedCourse(t, "Go Basics", "programming")
	otherCourse := env.seedCourse(t, "Rustaceans", "programming")

	a := env.seedChapter(t, course.ID, "a", 1, 100)
	b := env.seedChapter(t, course.ID, "b", 2, 100)
	foreign := env.seedChapter(t, otherCourse.ID, "foreign", 1, 100)

	resp := env.request(t, "POST", fmt.Sprintf("/api/courses/%d/chapters/reorder", course.ID), token,
		map[string]interface{}{"orderedIds": []uint{foreign.ID, a.ID}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, env.chapterPositions(t, course.ID))

	resp = env.request(t, "POST", fmt.Sprintf("/api/courses/%d/chapters/reorder", course.ID), token,
		map[string]interface{}{"orderedIds": []uint{b.ID, a.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"b": 1, "a": 2}, env.chapterPositions(t, course.ID))
}

func TestMoveChapter(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "dave", "dave@example.com", "secret123")
	token := env.tokenFor(t, user)
	course := env.seedCourse(t, "Go Basics", "programming")
	env.seedChapter(t, course.ID, "a", 1, 100)
	env.seedChapter(t, course.ID, "b", 2, 100)
	c3 := env.seedChapter(t, course.ID, "c", 3, 100)

	resp := env.request(t, "PATCH", fmt.Sprintf("/api/chapters/%d/position", c3.ID), token,
		map[string]interface{}{"position": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"c": 1, "a": 2, "b": 3}, env.chapterPositions(t, course.ID))
}

func TestUpdateChapterPartial(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "erin", "erin@example.com", "secret123")
	token := env.tokenFor(t, user)
	course := env.seedCourse(t, "Go Basics", "programming")
	chapter := env.seedChapter(t, course.ID, "old title", 1, 100)

	resp := env.request(t, "PATCH", fmt.Sprintf("/api/chapters/%d", chapter.ID), token,
		map[string]interface{}{"title": "new title"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.CourseChapter
	require.NoError(t, env.DB.First(&stored, chapter.ID).Error)
	assert.Equal(t, "new title", stored.Title)
	// Untouched fields survive a partial update.
	assert.Equal(t, 100, stored.DurationSec)
	assert.Equal(t, "/videos/old title.mp4", stored.VideoURL)
}
