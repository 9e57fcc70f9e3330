package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
	"github.com/phrazzld/projpool-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProjectDetail() *service.ProjectDetail {
	owner := &domain.User{ID: uuid.New(), Username: "alice", HashedPassword: "secret-hash"}
	project := &domain.Project{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Name:        "Birds",
		Description: "Bird photos",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	label := &domain.Label{ID: uuid.New(), ProjectID: project.ID, Text: "sparrow"}
	refinement := &domain.Refinement{
		ID:            uuid.New(),
		LabelID:       label.ID,
		Difficulty:    domain.DifficultySimple,
		GeneratedText: "A small brown bird.",
	}
	image := &domain.Image{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Filename:    "bird.jpg",
		ObjectPath:  "gs://bucket/abc_bird.jpg",
		ContentType: "image/jpeg",
	}
	return &service.ProjectDetail{
		Project: project,
		Owner:   owner,
		Labels: []*service.LabelDetail{
			{Label: label, Project: project, Refinements: []*domain.Refinement{refinement}},
		},
		Images: []*domain.Image{image},
	}
}

func TestProjectResponseShape(t *testing.T) {
	detail := sampleProjectDetail()

	data, err := json.Marshal(projectToResponse(detail))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "Birds", got["name"])
	user := got["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, string(data), "secret-hash")

	labels := got["labels"].([]interface{})
	require.Len(t, labels, 1)
	label := labels[0].(map[string]interface{})
	assert.Equal(t, "sparrow", label["text"])
	assert.NotContains(t, label, "project", "labels inside a project omit the project")

	refinements := label["refinements"].([]interface{})
	require.Len(t, refinements, 1)
	assert.Equal(t, "simple", refinements[0].(map[string]interface{})["difficulty"])

	images := got["images"].([]interface{})
	require.Len(t, images, 1)
	assert.Equal(t, "gs://bucket/abc_bird.jpg", images[0].(map[string]interface{})["gcs_path"])
}

func TestLabelResponseEmbedsProject(t *testing.T) {
	detail := sampleProjectDetail().Labels[0]

	data, err := json.Marshal(labelToResponse(detail, true))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	project := got["project"].(map[string]interface{})
	assert.Equal(t, "Birds", project["name"])
	assert.Equal(t, "Bird photos", project["description"])
}

func TestRefinedLabelResponseShape(t *testing.T) {
	label := &domain.Label{ID: uuid.New(), Text: "heron"}
	refinement := &domain.Refinement{
		ID:            uuid.New(),
		LabelID:       label.ID,
		Difficulty:    domain.DifficultyInDepth,
		GeneratedText: "A long-legged wading bird.",
	}

	data, err := json.Marshal(refinedLabelToResponse(&service.RefinementDetail{Refinement: refinement, Label: label}))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, refinement.ID.String(), got["id"])
	assert.Equal(t, "in_depth", got["difficulty"])
	assert.Equal(t, "A long-legged wading bird.", got["generated_text"])
	input := got["input_label"].(map[string]interface{})
	assert.Equal(t, "heron", input["text"])
}

func TestEmptyCollectionsEncodeAsArrays(t *testing.T) {
	detail := &service.ProjectDetail{Project: &domain.Project{ID: uuid.New(), Name: "Empty"}}

	data, err := json.Marshal(projectToResponse(detail))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []interface{}{}, got["labels"])
	assert.Equal(t, []interface{}{}, got["images"])
	assert.Nil(t, got["user"])

	profile := &service.UserProfile{User: &domain.User{ID: uuid.New(), Username: "bob"}}
	data, err = json.Marshal(userToResponse(profile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"projects":[]`)
}
