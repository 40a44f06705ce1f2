// Package domain contains core concepts of the investor registry.
// This file defines ExternalInvestor records and the payloads that mutate them.
// No storage, network, or UI logic should be added here.
package domain

import (
	"strings"
	"time"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// ExternalInvestor is the only entity of the registry.
// ID and CreatedAt never change once the record exists.
type ExternalInvestor struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvestorInput is what a form submission carries.
type InvestorInput struct {
	Name        string
	Description string
}

// InvestorPatch holds the fields an update overwrites, nil meaning unchanged.
type InvestorPatch struct {
	Name        *string
	Description *string
}

func (p InvestorPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}

// Normalize trims surrounding whitespace from every field.
func (i InvestorInput) Normalize() InvestorInput {
	return InvestorInput{
		Name:        strings.TrimSpace(i.Name),
		Description: strings.TrimSpace(i.Description),
	}
}

// Apply merges the patch into a copy of the investor.
// ID, CreatedAt and UpdatedAt are left for the caller to manage.
func (e ExternalInvestor) Apply(patch InvestorPatch) ExternalInvestor {
	if patch.Name != nil {
		e.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		e.Description = strings.TrimSpace(*patch.Description)
	}
	return e
}
