// Package domain contains the core business entities of ProjPool: users,
// their projects, the labels that break a project down, the AI-generated
// refinements of each label, project images and revoked access tokens.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
