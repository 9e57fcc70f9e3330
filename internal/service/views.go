package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// ProjectDetail is a project with its owner, labels and images.
type ProjectDetail struct {
	Project *domain.Project
	Owner   *domain.User
	Labels  []*LabelDetail
	Images  []*domain.Image
}

// LabelDetail is a label with its project and refinements.
type LabelDetail struct {
	Label       *domain.Label
	Project     *domain.Project
	Refinements []*domain.Refinement
}

// RefinementDetail is a refinement with the label it was generated for.
type RefinementDetail struct {
	Refinement *domain.Refinement
	Label      *domain.Label
}

// UserProfile is a user with the projects they own.
type UserProfile struct {
	User     *domain.User
	Projects []*domain.Project
}

// loadProjectDetails assembles details for projects with one query per
// relation instead of one per project.
func (s Stores) loadProjectDetails(ctx context.Context, projects []*domain.Project) ([]*ProjectDetail, error) {
	details := make([]*ProjectDetail, 0, len(projects))
	if len(projects) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	labels, err := s.Labels.ListByProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	images, err := s.Images.ListByProjects(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProject := make(map[uuid.UUID]*domain.Project, len(projects))
	for _, p := range projects {
		byProject[p.ID] = p
	}
	labelDetails, err := s.loadLabelDetails(ctx, byProject, labels)
	if err != nil {
		return nil, err
	}

	labelsByProject := make(map[uuid.UUID][]*LabelDetail)
	for _, ld := range labelDetails {
		labelsByProject[ld.Label.ProjectID] = append(labelsByProject[ld.Label.ProjectID], ld)
	}
	imagesByProject := make(map[uuid.UUID][]*domain.Image)
	for _, img := range images {
		imagesByProject[img.ProjectID] = append(imagesByProject[img.ProjectID], img)
	}

	owners := make(map[uuid.UUID]*domain.User)
	for _, p := range projects {
		owner, ok := owners[p.UserID]
		if !ok {
			owner, err = s.Users.GetByID(ctx, p.UserID)
			if err != nil {
				return nil, err
			}
			owners[p.UserID] = owner
		}

		d := &ProjectDetail{
			Project: p,
			Owner:   owner,
			Labels:  labelsByProject[p.ID],
			Images:  imagesByProject[p.ID],
		}
		if d.Labels == nil {
			d.Labels = []*LabelDetail{}
		}
		if d.Images == nil {
			d.Images = []*domain.Image{}
		}
		details = append(details, d)
	}

	return details, nil
}

// loadLabelDetails attaches refinements and the owning project to labels.
// projects must contain every label's project.
func (s Stores) loadLabelDetails(
	ctx context.Context,
	projects map[uuid.UUID]*domain.Project,
	labels []*domain.Label,
) ([]*LabelDetail, error) {
	details := make([]*LabelDetail, 0, len(labels))
	if len(labels) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(labels))
	for i, l := range labels {
		ids[i] = l.ID
	}
	refinements, err := s.Refinements.ListByLabels(ctx, ids)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[uuid.UUID][]*domain.Refinement, len(labels))
	for _, r := range refinements {
		byLabel[r.LabelID] = append(byLabel[r.LabelID], r)
	}

	for _, l := range labels {
		refs := byLabel[l.ID]
		if refs == nil {
			refs = []*domain.Refinement{}
		}
		details = append(details, &LabelDetail{
			Label:       l,
			Project:     projects[l.ProjectID],
			Refinements: refs,
		})
	}
	return details, nil
}
