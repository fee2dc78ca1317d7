// Package models defines core data structures for records, content analysis, layouts, and decorations.
package models

import (
	"strings"
	"time"
)

// Record represents a stored memory record with its composed page data.
// Decorations holds the serialized PageDecorations blob; the core reads and
// overwrites it together with RecommendedLayout and never touches photos.
type Record struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Caption           string    `json:"caption" db:"caption"`
	ImageCount        int       `json:"image_count" db:"image_count"`
	Date              string    `json:"date,omitempty" db:"date"`
	Location          string    `json:"location,omitempty" db:"location"`
	Tags              []string  `json:"tags,omitempty" db:"tags"`
	RecommendedLayout Template  `json:"recommended_layout" db:"recommended_layout"`
	Decorations       string    `json:"decorations" db:"decorations"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// RecordInput is the input for composing or creating a record.
type RecordInput struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string   `json:"title,omitempty" yaml:"title,omitempty" validate:"max=200"`
	Caption    string   `json:"caption" yaml:"caption" validate:"required,caption"`
	ImageCount int      `json:"image_count" yaml:"image_count" validate:"gte=0,lte=20"`
	Date       string   `json:"date,omitempty" yaml:"date,omitempty"`
	Location   string   `json:"location,omitempty" yaml:"location,omitempty" validate:"max=200"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// Normalize trims surrounding whitespace from text fields and drops empty tags.
func (in *RecordInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Caption = strings.TrimSpace(in.Caption)
	in.Date = strings.TrimSpace(in.Date)
	in.Location = strings.TrimSpace(in.Location)
	tags := in.Tags[:0]
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	in.Tags = tags
}

// HasTag reports whether the input carries tag, compared case-insensitively.
func (in *RecordInput) HasTag(tag string) bool {
	for _, t := range in.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Input returns the RecordInput that produced r.
func (r *Record) Input() *RecordInput {
	return &RecordInput{
		ID:         r.ID,
		Title:      r.Title,
		Caption:    r.Caption,
		ImageCount: r.ImageCount,
		Date:       r.Date,
		Location:   r.Location,
		Tags:       append([]string(nil), r.Tags...),
	}
}
