package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/researchlab/experiment-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperimentRoutesRequireAuthentication(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, "GET", "/api/experiments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExperimentRoutesRequireResearcherRole(t *testing.T) {
	// Admins have no special experiment access
	env := setupTestEnv(t)
	admin := env.seedUser(t, "admin@lab.example", "pw123456", models.RoleAdmin)
	token := env.tokenFor(t, admin)

	w := env.request(t, "GET", "/api/experiments", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateExperimentAttributesOwnership(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	// An owner field in the body must be ignored
	w := env.request(t, "POST", "/api/experiments", token, map[string]interface{}{
		"title":       "Spectroscopy run",
		"description": "Baseline sweep",
		"category":    "Physics",
		"authorId":    999,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody(t, w)
	assert.Equal(t, float64(researcher.ID), created["authorId"])
}

func TestCreateExperimentRequiresAllFields(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	w := env.request(t, "POST", "/api/experiments", token, map[string]string{
		"title": "only a title",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateExperimentRejectsUnknownCategory(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	w := env.request(t, "POST", "/api/experiments", token, map[string]string{
		"title":       "t",
		"description": "d",
		"category":    "Alchemy",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListExperimentsScopedToCaller(t *testing.T) {
	env := setupTestEnv(t)
	ada := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	grace := env.seedUser(t, "grace@lab.example", "pw123456", models.RoleResearcher)

	require.NoError(t, env.db.Create(&models.Experiment{
		Title: "ada's", Description: "d", Category: "Biology", AuthorID: ada.ID,
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, env.db.Create(&models.Experiment{
		Title: "ada's newer", Description: "d", Category: "Biology", AuthorID: ada.ID,
	}).Error)
	require.NoError(t, env.db.Create(&models.Experiment{
		Title: "grace's", Description: "d", Category: "Chemistry", AuthorID: grace.ID,
	}).Error)

	w := env.request(t, "GET", "/api/experiments", env.tokenFor(t, ada), nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeList(t, w)
	require.Len(t, list, 2)
	// Newest first, and no foreign rows
	assert.Equal(t, "ada's newer", list[0]["title"])
	assert.Equal(t, "ada's", list[1]["title"])

	w = env.request(t, "GET", "/api/experiments", env.tokenFor(t, grace), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "grace's", list[0]["title"])
}

func TestGetExperimentMasksForeignRowsAsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	ada := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	grace := env.seedUser(t, "grace@lab.example", "pw123456", models.RoleResearcher)

	exp := &models.Experiment{Title: "secret", Description: "d", Category: "Biology", AuthorID: ada.ID}
	require.NoError(t, env.db.Create(exp).Error)

	w := env.request(t, "GET", fmt.Sprintf("/api/experiments/%d", exp.ID), env.tokenFor(t, grace), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	// Nothing about the record leaks through the error path
	assert.NotContains(t, w.Body.String(), "secret")

	// Same answer for an ID that does not exist at all
	w = env.request(t, "GET", "/api/experiments/999", env.tokenFor(t, grace), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExperimentRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	w := env.request(t, "POST", "/api/experiments", token, map[string]string{
		"title":       "Protein folding",
		"description": "Folding at varying pH",
		"category":    "Chemistry",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(float64)

	w = env.request(t, "GET", fmt.Sprintf("/api/experiments/%.0f", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Protein folding", got["title"])
	assert.Equal(t, "Folding at varying pH", got["description"])
	assert.Equal(t, "Chemistry", got["category"])

	// Partial update: title only, category untouched
	w = env.request(t, "PUT", fmt.Sprintf("/api/experiments/%.0f", id), token, map[string]string{
		"title": "Protein folding v2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, "GET", fmt.Sprintf("/api/experiments/%.0f", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeBody(t, w)
	assert.Equal(t, "Protein folding v2", got["title"])
	assert.Equal(t, "Chemistry", got["category"])
}

func TestUpdateExperimentByNonOwner(t *testing.T) {
	env := setupTestEnv(t)
	ada := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	grace := env.seedUser(t, "grace@lab.example", "pw123456", models.RoleResearcher)

	exp := &models.Experiment{Title: "original", Description: "d", Category: "Biology", AuthorID: ada.ID}
	require.NoError(t, env.db.Create(exp).Error)

	w := env.request(t, "PUT", fmt.Sprintf("/api/experiments/%d", exp.ID), env.tokenFor(t, grace), map[string]string{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Record unchanged
	var stored models.Experiment
	require.NoError(t, env.db.First(&stored, exp.ID).Error)
	assert.Equal(t, "original", stored.Title)
}

func TestUpdateExperimentRejectsEmptyTitle(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	exp := &models.Experiment{Title: "t", Description: "d", Category: "Biology", AuthorID: researcher.ID}
	require.NoError(t, env.db.Create(exp).Error)

	w := env.request(t, "PUT", fmt.Sprintf("/api/experiments/%d", exp.ID), token, map[string]string{
		"title": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteExperimentByNonOwner(t *testing.T) {
	env := setupTestEnv(t)
	ada := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	grace := env.seedUser(t, "grace@lab.example", "pw123456", models.RoleResearcher)

	exp := &models.Experiment{Title: "keep", Description: "d", Category: "Biology", AuthorID: ada.ID}
	require.NoError(t, env.db.Create(exp).Error)

	w := env.request(t, "DELETE", fmt.Sprintf("/api/experiments/%d", exp.ID), env.tokenFor(t, grace), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	env.db.Model(&models.Experiment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteExperimentByOwner(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	exp := &models.Experiment{Title: "done", Description: "d", Category: "Biology", AuthorID: researcher.ID}
	require.NoError(t, env.db.Create(exp).Error)

	w := env.request(t, "DELETE", fmt.Sprintf("/api/experiments/%d", exp.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Experiment deleted", decodeBody(t, w)["message"])

	w = env.request(t, "GET", fmt.Sprintf("/api/experiments/%d", exp.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExperimentInvalidIDFormat(t *testing.T) {
	env := setupTestEnv(t)
	researcher := env.seedUser(t, "ada@lab.example", "pw123456", models.RoleResearcher)
	token := env.tokenFor(t, researcher)

	w := env.request(t, "GET", "/api/experiments/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
